package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktree/pkg/block"
	"github.com/matzehuels/blocktree/pkg/cache"
	"github.com/matzehuels/blocktree/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// DocHash hashes a document together with the loader its name selects.
func DocHash(name string, src []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	return cache.Hash(append([]byte(ext+"\x00"), src...))
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		DocHash:   DocHash(opts.Name, opts.Source),
		Artifacts: make(map[string][]byte),
	}
	layoutKey := r.Keyer.LayoutKey(result.DocHash, opts.LayoutKeyOpts())
	sourceHash := cache.Hash([]byte(layoutKey))

	if !opts.Refresh {
		if r.fromCache(ctx, layoutKey, sourceHash, opts, result) {
			r.Logger.Info("served from cache", "document", opts.Name, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := Load(opts.Name, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)

	// Stage 2: Layout
	layoutStart := time.Now()
	s, err := NewSession(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Session = s
	result.Stats.Blocks = s.Len()
	result.Stats.Lines = s.LastLine() + 1
	snap, hit, err := r.cached(ctx, layoutKey, "layout", cache.TTLLayout, opts.Refresh, func() ([]byte, error) {
		return Snapshot(s)
	})
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"blocks", result.Stats.Blocks,
		"lines", result.Stats.Lines,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	allHit := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.cached(ctx, key, "artifact", cache.TTLArtifact, opts.Refresh, func() ([]byte, error) {
			return RenderFormat(ctx, s, format, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		allHit = allHit && hit
		result.Artifacts[format] = data
	}
	result.CacheInfo.RenderHit = allHit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Session loads and lays out a document without touching the cache.
func (r *Runner) Session(ctx context.Context, opts Options) (*block.Session, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	doc, err := Load(opts.Name, opts.Source)
	if err != nil {
		return nil, err
	}
	return NewSession(ctx, doc, opts)
}

// cached reads key or computes and stores it. With refresh set the read
// is skipped.
func (r *Runner) cached(ctx context.Context, key, keyType string, ttl time.Duration, refresh bool, compute func() ([]byte, error)) ([]byte, bool, error) {
	if !refresh {
		return cache.GetOrCompute(ctx, r.Cache, key, keyType, ttl, compute)
	}
	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
	}
	return data, false, nil
}

// fromCache fills result when the snapshot and every artifact are cached.
func (r *Runner) fromCache(ctx context.Context, layoutKey, sourceHash string, opts Options, result *Result) bool {
	snap, hit, err := r.Cache.Get(ctx, layoutKey)
	if err != nil || !hit {
		return false
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			return false
		}
		artifacts[format] = data
	}
	sn, err := render.ReadSnapshot(bytes.NewReader(snap))
	if err != nil {
		return false
	}
	result.Snapshot = snap
	result.Artifacts = artifacts
	result.Stats.Blocks = len(sn.Blocks)
	result.Stats.Lines = sn.LastLine + 1
	result.CacheInfo = CacheInfo{LayoutHit: true, RenderHit: true}
	return true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
