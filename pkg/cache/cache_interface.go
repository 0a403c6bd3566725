package cache

import (
	"context"
	"time"
)

// Cache is the contract the services use for caching.
// Implementations: RedisCache (production), miniredis-backed RedisCache in tests.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found is false on a miss, in which case dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob, e.g. "services:list:*".
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error

	// Counters, used for failed login tracking.
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
