// Package cli implements the blocktree command-line interface.
//
// Commands load a document (plain source, or a JSON tree when the file ends
// in .json), lay it out in a block session and present the result:
//
//	blocktree show main.c --fold 3
//	blocktree layout main.c -o layout.json
//	blocktree export main.c -f svg,dot,text
//	blocktree edit main.c
//	blocktree serve main.c --addr :7878
//
// Output for humans goes to stdout through lipgloss styles; diagnostics go
// to the charmbracelet logger, which is carried in the command context and
// switched to debug level by --verbose.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktree/pkg/observability"
)

// newLogger creates the CLI logger. Timestamps are short ("15:04:05.00")
// since runs are interactive.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// progress logs the completion of a step with its elapsed time, e.g.
// "Laid out main.c (12ms)". Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(format string, args ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(fmt.Sprintf(format, args...), "elapsed", elapsed)
}

type loggerKey struct{}

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// debugHooks logs engine and cache events at debug level.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnUpdatePass(_ context.Context, root string, blocks int, d time.Duration) {
	h.logger.Debug("update pass", "root", root, "blocks", blocks, "duration", d)
}

func (h debugHooks) OnRetire(_ context.Context, count int) {
	h.logger.Debug("retired blocks", "count", count)
}

func (h debugHooks) OnTextChanged(_ context.Context, block string, removed bool) {
	h.logger.Debug("text changed", "block", block, "removed", removed)
}

func (h debugHooks) OnSplit(_ context.Context, block string) {
	h.logger.Debug("split line", "block", block)
}

func (h debugHooks) OnErase(_ context.Context, block string, backward bool) {
	h.logger.Debug("erase", "block", block, "backward", backward)
}

func (h debugHooks) OnFold(_ context.Context, block string, folded bool) {
	h.logger.Debug("fold", "block", block, "folded", folded)
}

func (h debugHooks) OnSelect(_ context.Context, block string) {
	h.logger.Debug("select", "block", block)
}

func (h debugHooks) OnDragStart(_ context.Context, block string) {
	h.logger.Debug("drag start", "block", block)
}

func (h debugHooks) OnDragEnd(_ context.Context, block, parent string, committed bool) {
	h.logger.Debug("drag end", "block", block, "parent", parent, "committed", committed)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// EnableDebugHooks routes engine and cache events to the CLI logger.
func (c *CLI) EnableDebugHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetLayoutHooks(h)
	observability.SetEditHooks(h)
	observability.SetDragHooks(h)
	observability.SetCacheHooks(h)
}
