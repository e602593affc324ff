// Package lock implements the named, TTL-bound distributed lock that
// gates reservation attempts per seat across all process instances.
package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLocker acquires locks with SET NX EX and releases them with
// DEL.  Acquisition is a single bounded attempt: when the key already
// exists the call reports false immediately instead of waiting.  The
// TTL makes the lock self-expiring, so a holder that crashes before
// releasing can stall a seat for at most the TTL.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker returns a locker backed by the given Redis client.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	if client == nil {
		panic("nil redis client passed to NewRedisLocker")
	}
	return &RedisLocker{client: client}
}

// Acquire attempts to take the named lock.  It returns (true, nil)
// when this caller now holds the lock, (false, nil) when another
// holder already does, and a non-nil error only on transport failure.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, "1", ttl).Result()
}

// Release frees the named lock.  Releasing a lock that already expired
// is a no-op, not an error.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
