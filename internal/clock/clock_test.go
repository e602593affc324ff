package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedAdvance(t *testing.T) {
	start := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	clk := NewFixed(start)

	assert.Equal(t, start, clk.Now())

	clk.Advance(30 * time.Second)
	assert.Equal(t, start.Add(30*time.Second), clk.Now())
}

func TestFixedNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	clk := NewFixed(time.Date(2025, 6, 1, 23, 0, 0, 0, loc))

	assert.Equal(t, time.UTC, clk.Now().Location())
	assert.Equal(t, time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC), clk.Now())
}

func TestFixedConcurrentReadsAndAdvances(t *testing.T) {
	clk := NewFixed(time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clk.Advance(time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = clk.Now()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, time.Date(2025, 6, 1, 20, 0, 0, 800*int(time.Millisecond), time.UTC), clk.Now())
}
