package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/daviramosds/starsoft-backend-challenge/internal/service"
)

// MemoryLocker is an in-memory service.Locker with real TTL-based
// expiry.  Acquire is non-blocking, matching the Redis SET NX EX
// semantics of the production locker.
type MemoryLocker struct {
	mu       sync.Mutex
	held     map[string]time.Time
	acquires int
	releases int
}

// NewMemoryLocker returns an empty locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time)}
}

var _ service.Locker = (*MemoryLocker)(nil)

func (l *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if deadline, ok := l.held[key]; ok && time.Now().Before(deadline) {
		return false, nil
	}
	l.held[key] = time.Now().Add(ttl)
	l.acquires++
	return true, nil
}

func (l *MemoryLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	l.releases++
	return nil
}

// Held reports whether the key is currently locked.
func (l *MemoryLocker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	deadline, ok := l.held[key]
	return ok && time.Now().Before(deadline)
}

// Counts reports how many acquisitions and releases succeeded, so
// tests can assert the lock is released exactly once per acquisition.
func (l *MemoryLocker) Counts() (acquires, releases int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquires, l.releases
}

// MemoryCache is an in-memory service.Cache.  TTLs are honored on Get.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

var _ service.Cache = (*MemoryCache)(nil)

func (c *MemoryCache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return "", nil
	}
	return e.value, nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(key string) bool {
	v, _ := c.Get(context.Background(), key)
	return v != ""
}

// RecordedEvent is one publication captured by RecordingPublisher.
type RecordedEvent struct {
	Name    string
	Payload any
}

// RecordingPublisher is a service.Publisher that records every event
// instead of talking to a broker.  Fail makes every publish return an
// error, for asserting that event failures never fail bookings.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []RecordedEvent
	Fail   error
}

// NewRecordingPublisher returns an empty publisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

var _ service.Publisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(ctx context.Context, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail != nil {
		return p.Fail
	}
	p.events = append(p.events, RecordedEvent{Name: event, Payload: payload})
	return nil
}

// Events returns a copy of everything published so far.
func (p *RecordingPublisher) Events() []RecordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RecordedEvent, len(p.events))
	copy(out, p.events)
	return out
}
