// Package cache stores rendered artifacts and fetched payloads by key.
//
// Backends:
//   - [FileCache]: one file per key below a directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] so every backend sees the same key space.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the entry stored under key. A missing or expired entry
	// is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}
