// Package pipeline provides the load → layout → render pipeline behind the
// blocktree export commands.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: turn a source file into a parse tree (plain source or a JSON tree)
//  2. Layout: attach the tree to a block session and apply initial folds
//  3. Render: produce artifacts from the session (text, JSON, DOT, SVG)
//
// The layout snapshot and every artifact are cached by [Runner] under keys
// derived from the document hash and the options that affect them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:    "main.c",
//	    Source:  src,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blocktree/pkg/block"
	"github.com/matzehuels/blocktree/pkg/cache"
	"github.com/matzehuels/blocktree/pkg/config"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
)

// Format constants for output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatScene = "scene"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText:  true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatScene: true,
}

// Extensions maps output formats to file extensions.
var Extensions = map[string]string{
	FormatText:  ".txt",
	FormatJSON:  ".json",
	FormatDOT:   ".dot",
	FormatSVG:   ".svg",
	FormatScene: ".scene.svg",
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Name is the document name; a ".json" extension selects the JSON tree
	// loader.
	Name string `json:"name"`
	// Source is the document content.
	Source []byte `json:"-"`

	// Config carries the layout metrics and style overrides.
	Config config.Config `json:"-"`
	// Fold lists 1-based lines whose block is folded before rendering.
	Fold []int `json:"fold,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	// Refresh bypasses cached entries.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Session is the laid-out session. It is nil when every artifact came
	// from the cache.
	Session *block.Session

	// DocHash is the content hash of the source.
	DocHash string

	// Snapshot is the JSON layout snapshot.
	Snapshot []byte

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Blocks     int
	Lines      int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return bterr.New(bterr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Name == "" {
		return bterr.New(bterr.ErrCodeInvalidInput, "document name is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, l := range o.Fold {
		if l < 1 {
			return bterr.New(bterr.ErrCodeInvalidInput, "fold line must be positive, got %d", l)
		}
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	bc := o.Config.Block()
	folded := slices.Clone(o.Fold)
	slices.Sort(folded)
	return cache.LayoutKeyOpts{
		Offset:      bc.Offset.X,
		SpaceWidth:  bc.SpaceWidth,
		CharWidth:   bc.CharWidth,
		LineHeight:  bc.LineHeight,
		TextMargin:  bc.TextMargin,
		ControlSize: bc.ControlSize,
		StyleHash:   styleHash(o.Config),
		Folded:      slices.Compact(folded),
	}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

func styleHash(c config.Config) string {
	if len(c.Styles) == 0 && len(c.Formats) == 0 && c.Layout.ChromaStyle == "" {
		return ""
	}
	return cache.Hash(fmt.Appendf(nil, "%s|%v|%v", c.Layout.ChromaStyle, c.Styles, c.Formats))
}
