// Package observability lets a host watch the block engine without the engine
// depending on any metrics or tracing backend.
//
// Four hook sets are exposed: layout passes, text edits, drags and cache
// traffic. Each starts as a no-op and can be replaced once at startup, for
// example by the CLI's --verbose flag which routes every event to the debug
// logger:
//
//	observability.SetEditHooks(myEditHooks{})
//	defer observability.Reset()
//
// The engine then reports through the accessors:
//
//	observability.Edit().OnSplit(ctx, h.String())
//
// Blocks are identified by the string form of their handle ("3.1").
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the block layout engine.
type LayoutHooks interface {
	// OnUpdatePass records one top-down update pass.
	OnUpdatePass(ctx context.Context, root string, blocks int, duration time.Duration)

	// OnRetire records the deferred destruction of blocks at the end of an operation.
	OnRetire(ctx context.Context, count int)
}

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from text mutation and selection.
type EditHooks interface {
	// OnTextChanged records a text commit; removed is set when the block was deleted.
	OnTextChanged(ctx context.Context, block string, removed bool)

	// OnSplit records a line split.
	OnSplit(ctx context.Context, block string)

	// OnErase records a character erase in the given direction.
	OnErase(ctx context.Context, block string, backward bool)

	// OnFold records a fold state change.
	OnFold(ctx context.Context, block string, folded bool)

	// OnSelect records a selection change; block is empty when cleared.
	OnSelect(ctx context.Context, block string)
}

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives events from drag and reparent operations.
type DragHooks interface {
	// OnDragStart records the detachment of a dragged block.
	OnDragStart(ctx context.Context, block string)

	// OnDragEnd records a drop. parent is empty when the block was discarded.
	OnDragEnd(ctx context.Context, block, parent string, committed bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnUpdatePass(context.Context, string, int, time.Duration) {}
func (NoopLayoutHooks) OnRetire(context.Context, int)                            {}

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnTextChanged(context.Context, string, bool) {}
func (NoopEditHooks) OnSplit(context.Context, string)             {}
func (NoopEditHooks) OnErase(context.Context, string, bool)       {}
func (NoopEditHooks) OnFold(context.Context, string, bool)        {}
func (NoopEditHooks) OnSelect(context.Context, string)            {}

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart(context.Context, string)             {}
func (NoopDragHooks) OnDragEnd(context.Context, string, string, bool) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	editHooks   EditHooks   = NoopEditHooks{}
	dragHooks   DragHooks   = NoopDragHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers layout hooks. A nil value is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetEditHooks registers custom edit hooks.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetDragHooks registers custom drag hooks.
func SetDragHooks(h DragHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dragHooks = h
	}
}

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// Drag returns the registered drag hooks.
func Drag() DragHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dragHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	editHooks = NoopEditHooks{}
	dragHooks = NoopDragHooks{}
	cacheHooks = NoopCacheHooks{}
}
