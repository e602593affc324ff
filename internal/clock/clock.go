package clock

import (
	"sync"
	"time"
)

// Clock abstracts the current time so services can be tested against
// a fixed instant (reservation expiry depends on "now").
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a clock pinned to a settable instant, useful in tests that
// need to move time past a reservation's expiry.  Now and Advance are
// safe to call from concurrent goroutines.
type Fixed struct {
	mu      sync.Mutex
	instant time.Time
}

// NewFixed returns a clock that always reports the given instant.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{instant: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instant
}

// Advance moves the fixed clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instant = f.instant.Add(d)
}
