// Package cache implements the best-effort Redis mirror of reservation
// snapshots.  The mirror is a fast-path read optimization only; the
// database stays authoritative and every method's failure is safe to
// ignore.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReservationCache stores JSON snapshots keyed "reservation:<id>" with
// the same TTL as the reservation's own expiry.
type ReservationCache struct {
	client *redis.Client
}

// NewReservationCache returns a cache backed by the given Redis client.
func NewReservationCache(client *redis.Client) *ReservationCache {
	if client == nil {
		panic("nil redis client passed to NewReservationCache")
	}
	return &ReservationCache{client: client}
}

// SetWithTTL stores value under key, expiring after ttl.
func (c *ReservationCache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.SetEx(ctx, key, value, ttl).Err()
}

// Get returns the value under key, or "" when the key is absent.
func (c *ReservationCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// Delete removes key.  Deleting an absent key is a no-op.
func (c *ReservationCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
