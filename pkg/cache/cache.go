// Package cache provides pluggable caching for expensive pipeline
// stages, primarily assistant generation calls and assembled dashboard
// definitions.
//
// Three backends are available: a file cache for CLI usage, a Redis
// cache for server deployments, and a null cache that disables caching
// entirely. All backends store opaque byte slices; callers serialize
// their own values.
package cache

import (
	"context"
	"time"
)

// Default TTLs per stage. Generation results are the expensive calls;
// definitions are cheap to rebuild but caching them keeps repeated
// publishes of the same plan byte-identical.
const (
	TTLGeneration = 24 * time.Hour
	TTLDefinition = 7 * 24 * time.Hour
	TTLHTTP       = time.Hour
)

// Cache is the storage backend interface.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
