// Package redis is the cache layer in front of the settings table.
package redis

import (
	"context"
	"time"
)

// CacheService is the synchronous cache surface.
type CacheService interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns "" and nil for a missing key.
	Get(ctx context.Context, key string) (string, error)
	// GetOrError returns a CodeNotFound error for a missing key.
	GetOrError(ctx context.Context, key string) (string, error)
	// MGet omits missing keys from the result.
	MGet(ctx context.Context, keys ...string) (map[string]string, error)
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
}

// AsyncCacheService adds a bounded background queue for cache writes that
// must not block the caller.
type AsyncCacheService interface {
	CacheService
	SubmitTask(action func())
	Close() error
}
