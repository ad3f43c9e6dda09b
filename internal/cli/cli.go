package cli

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktree/pkg/buildinfo"
	"github.com/matzehuels/blocktree/pkg/cache"
	"github.com/matzehuels/blocktree/pkg/config"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "blocktree"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = "127.0.0.1:7878"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath overrides the default configuration file.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Blocktree lays out and edits source code as nested blocks",
		Long: `Blocktree is a structured code editor engine. It turns source text into a
tree of nested blocks, lays them out in rows and lets you fold, select and
edit them. The CLI exposes the layout as text, JSON, DOT and SVG, runs an
interactive terminal editor and serves a session over HTTP for inspection.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/blocktree/config.toml)")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped by
// build version.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cacheKeyer()
	return pipeline.NewRunner(cache, keyer, c.Logger), nil
}

// newSessionRunner creates an uncached runner for commands that only need
// the laid-out session.
func (c *CLI) newSessionRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, nil, c.Logger)
}

func cacheKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/blocktree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Inputs
// =============================================================================

// loadConfig reads --config, or the default file when the flag is unset.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}

// readDocument validates and reads an input file.
func readDocument(path string) ([]byte, error) {
	if err := bterr.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, bterr.Wrap(bterr.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, bterr.Wrap(bterr.ErrCodeInvalidInput, err, "read %s", path)
	}
	return src, nil
}

// pipelineOptions builds the pipeline options for an input file.
func (c *CLI) pipelineOptions(path string, fold []int) (pipeline.Options, error) {
	src, err := readDocument(path)
	if err != nil {
		return pipeline.Options{}, err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Name:   filepath.Base(path),
		Source: src,
		Config: cfg,
		Fold:   fold,
		Logger: c.Logger,
	}, nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// parseLines parses a comma-separated list of 1-based line numbers.
func parseLines(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var lines []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, bterr.New(bterr.ErrCodeInvalidInput, "invalid line number %q", part)
		}
		lines = append(lines, n)
	}
	return lines, nil
}

// outputPath derives the output file for format from the input path, or
// from base when one was given.
func outputPath(input, base, format string, multi bool) string {
	ext := pipeline.Extensions[format]
	if base == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}
	if !multi {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}
