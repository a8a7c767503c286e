// Package cache stores computed tree layouts and rendered artifacts so that
// repeated renders of an unchanged family skip the build and layout stages.
//
// Keys are content addressed: a layout key hashes the family data together
// with the build and layout options, and an artifact key hashes the layout
// together with the render options. Any edit to the data therefore produces
// new keys and stale entries simply age out.
//
// Three backends are provided:
//
//   - [FileCache] for the CLI, rooted at [DefaultDir]
//   - [RedisCache] for the server when several processes share a cache
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default lifetimes for cached entries.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultDir returns the CLI cache directory: $XDG_CACHE_HOME/familytree,
// falling back to the user cache dir reported by the OS.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "familytree")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "familytree")
	}
	return filepath.Join(os.TempDir(), "familytree-cache")
}
