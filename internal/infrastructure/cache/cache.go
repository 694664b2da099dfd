// Package cache provides the key/value stores behind the product catalog
// cache. Values are stored as JSON so both backends behave the same.
package cache

import (
	"context"
	"time"
)

// Supported cache backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Store is a TTL key/value cache
type Store interface {
	// Get decodes the cached value into dest; found is false on a miss
	Get(ctx context.Context, key string, dest any) (found bool, err error)

	// Set stores value for ttl
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases background resources
	Close() error
}
