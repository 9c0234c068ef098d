// Package cache provides the byte-level cache used for rendered drawing
// artifacts and loaded input tables, plus the key derivation that ties cache
// entries to their inputs.
//
// Three backends implement [Cache]: a file cache for CLI usage, a Redis
// cache for the render service, and a null cache that disables caching
// without branching at call sites. Keys come from a [Keyer] so every caller
// derives them the same way.
package cache

import (
	"context"
	"time"
)

// Entry lifetimes. Table keys carry the source file's mtime and size, so a
// stale entry can never be served; the TTL only bounds disk growth.
const (
	TTLTable    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional
// expiration. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
