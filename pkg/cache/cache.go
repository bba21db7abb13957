// Package cache stores pipeline results (commit graphs, layouts and rendered
// artifacts) behind a small key/value interface.
//
// Four backends are provided:
//
//   - [NullCache] disables caching.
//   - [FileCache] keeps entries under the user cache directory (CLI default).
//   - [RedisCache] shares entries between server instances.
//   - [MongoCache] persists entries with a TTL index.
//
// Keys are produced by a [Keyer] so that every backend sees the same layout
// of namespaces.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs per artifact class.
const (
	GraphTTL    = 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// DefaultDir returns the directory used by the CLI file cache:
// $XDG_CACHE_HOME/gitxmas (or the platform equivalent).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "gitxmas"), nil
}

// GetJSON decodes the value stored under key into v. It returns ErrNotFound
// on a miss. An entry that no longer decodes is deleted and reported as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrNotFound
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
