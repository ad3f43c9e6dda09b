package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktree/pkg/pipeline"
)

// exportCommand creates the export command, which renders a document to
// one or more output formats.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output    string
		formatStr string
		foldStr   string
		noCache   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render a document layout to text, JSON, DOT or SVG",
		Long: `Render a document layout to text, JSON, DOT or SVG.

Formats (-f, comma-separated):
  text    laid-out rows with line numbers
  json    layout snapshot with every block's geometry and state
  dot     Graphviz DOT of the block tree
  svg     the DOT graph rendered by Graphviz
  scene   the block scene drawn as SVG frames and text

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold, err := parseLines(foldStr)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatStr)
			return c.runExport(cmd.Context(), args[0], fold, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (default: svg)")
	cmd.Flags().StringVar(&foldStr, "fold", "", "fold the blocks starting on these lines (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show block handles and state in DOT output")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runExport executes the pipeline and writes one file per format.
func (c *CLI) runExport(ctx context.Context, input string, fold []int, opts pipeline.Options, output string, noCache bool) error {
	base, err := c.pipelineOptions(input, fold)
	if err != nil {
		return err
	}
	base.Formats = opts.Formats
	base.Detailed = opts.Detailed
	base.Refresh = opts.Refresh

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, base)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	multi := len(base.Formats) > 1
	var paths []string
	for _, format := range base.Formats {
		path := outputPath(input, output, format, multi)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	c.Logger.Debugf("load %s, layout %s, render %s",
		result.Stats.LoadTime, result.Stats.LayoutTime, result.Stats.RenderTime)

	printSuccess("Exported %d artifact(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Blocks, result.Stats.Lines, result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Edit", "blocktree edit "+input)

	return nil
}
