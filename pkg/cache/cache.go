// Package cache stores layout snapshots and rendered artifacts keyed by
// content hash.
//
// The CLI uses a [FileCache] under the XDG cache directory so that exporting
// an unchanged document twice skips the Graphviz render. [NullCache]
// disables caching.
//
//	c, _ := cache.NewFileCache(dir)
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:")
//	key := keyer.ArtifactKey(cache.Hash(dot), cache.ArtifactKeyOpts{Format: "svg"})
//	svg, hit, err := cache.GetOrCompute(ctx, c, key, "artifact", cache.TTLArtifact, render)
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/blocktree/pkg/observability"
)

// Entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// GetOrCompute returns the cached value for key, or computes and stores it.
// The second result reports a cache hit. A failing cache read is treated as
// a miss; a failing write is ignored since the computed value is still
// valid.
func GetOrCompute(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
