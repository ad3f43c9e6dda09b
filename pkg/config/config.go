// Package config loads the blocktree configuration file.
//
// The file is TOML with a [layout] table for the layout metrics and the
// [styles.*] and [formats.*] tables of [style.File]:
//
//	[layout]
//	space_width = 10
//	line_height = 16
//	transition = "200ms"
//	chroma_style = "monokai"
//
//	[styles.keyword]
//	foreground = "#f92672"
//	bold = true
//
// Unset layout values keep the defaults of [block.DefaultConfig].
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blocktree/pkg/block"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/geom"
	"github.com/matzehuels/blocktree/pkg/style"
)

const (
	appName  = "blocktree"
	fileName = "config.toml"
)

// Config is the decoded configuration file.
type Config struct {
	Layout Layout `toml:"layout"`
	style.File
}

// Layout holds the [layout] table. Zero values mean "use the default".
type Layout struct {
	Offset        float64       `toml:"offset"`
	SpaceWidth    float64       `toml:"space_width"`
	CharWidth     float64       `toml:"char_width"`
	LineHeight    float64       `toml:"line_height"`
	TextMargin    float64       `toml:"text_margin"`
	DragThreshold float64       `toml:"drag_threshold"`
	ControlSize   float64       `toml:"control_size"`
	Transition    time.Duration `toml:"transition"`
	ChromaStyle   string        `toml:"chroma_style"`
}

// DefaultPath returns the configuration file path following the XDG
// standard (~/.config/blocktree/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Decode parses and validates TOML configuration data.
func Decode(data []byte) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, bterr.Wrap(bterr.ErrCodeInvalidConfig, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, bterr.New(bterr.ErrCodeInvalidConfig, "unknown config key %q", keys[0].String())
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, bterr.Wrap(bterr.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return Config{}, bterr.Wrap(bterr.ErrCodeInvalidConfig, err, "read config")
	}
	return Decode(data)
}

// LoadDefault reads the file at [DefaultPath]. A missing file yields the
// zero Config.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, nil
	}
	c, err := Load(path)
	if bterr.Is(err, bterr.ErrCodeFileNotFound) {
		return Config{}, nil
	}
	return c, err
}

// Validate rejects negative metrics and malformed style names.
func (c Config) Validate() error {
	l := c.Layout
	for name, v := range map[string]float64{
		"offset":         l.Offset,
		"space_width":    l.SpaceWidth,
		"char_width":     l.CharWidth,
		"line_height":    l.LineHeight,
		"text_margin":    l.TextMargin,
		"drag_threshold": l.DragThreshold,
		"control_size":   l.ControlSize,
	} {
		if v < 0 {
			return bterr.New(bterr.ErrCodeInvalidConfig, "layout.%s must not be negative", name)
		}
	}
	if l.Transition < 0 {
		return bterr.New(bterr.ErrCodeInvalidConfig, "layout.transition must not be negative")
	}
	if l.ChromaStyle != "" {
		if err := bterr.ValidateStyleName(l.ChromaStyle); err != nil {
			return err
		}
	}
	return nil
}

// Block returns the layout metrics with the configured values applied.
func (c Config) Block() block.Config {
	bc := block.DefaultConfig()
	l := c.Layout
	if l.Offset > 0 {
		bc.Offset = geom.Pt(l.Offset, l.Offset)
	}
	set := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	set(&bc.SpaceWidth, l.SpaceWidth)
	set(&bc.CharWidth, l.CharWidth)
	set(&bc.LineHeight, l.LineHeight)
	set(&bc.TextMargin, l.TextMargin)
	set(&bc.DragThreshold, l.DragThreshold)
	set(&bc.ControlSize, l.ControlSize)
	if l.Transition > 0 {
		bc.Transition = l.Transition
	}
	return bc
}

// Styles builds the style table: the chroma theme when one is named, the
// built-in palette otherwise, with the file's overrides on top.
func (c Config) Styles() (*style.Table, error) {
	t := style.New()
	if c.Layout.ChromaStyle != "" {
		t = style.FromChroma(c.Layout.ChromaStyle)
	}
	if err := c.File.Apply(t); err != nil {
		return nil, bterr.Wrap(bterr.ErrCodeInvalidConfig, err, "apply styles")
	}
	return t, nil
}

// Options returns the session options for the configuration.
func (c Config) Options() ([]block.Option, error) {
	t, err := c.Styles()
	if err != nil {
		return nil, err
	}
	return []block.Option{block.WithConfig(c.Block()), block.WithStyles(t)}, nil
}
