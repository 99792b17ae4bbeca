// Package cache stores rendered layout artifacts.
//
// The grid engine never caches: a layout pass is linear in the number of
// children and callers recompute it whenever inputs change. What is worth
// keeping is the rendered output (SVG, text, JSON) for a request that has
// already been seen, and that is what this package holds.
//
// # Backends
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//
// # Keys
//
// Keys are built by a [Keyer] from a hash of the request and the render
// options, so identical requests map to identical keys across processes.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached by default.
const TTLArtifact = 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
