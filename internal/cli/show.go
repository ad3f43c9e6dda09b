package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktree/pkg/render"
)

// showCommand creates the show command, which prints the laid-out rows.
func (c *CLI) showCommand() *cobra.Command {
	var (
		foldStr   string
		noNumbers bool
		plain     bool
	)

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Print a document as laid-out block rows",
		Long: `Print a document as laid-out block rows.

The document is parsed into blocks and laid out exactly as the editor would.
Folded blocks (--fold) are printed as their one-line summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold, err := parseLines(foldStr)
			if err != nil {
				return err
			}
			opts := render.TextOptions{LineNumbers: !noNumbers, Plain: plain}
			return c.runShow(cmd.Context(), cmd.OutOrStdout(), args[0], fold, opts)
		},
	}

	cmd.Flags().StringVar(&foldStr, "fold", "", "fold the blocks starting on these lines (comma-separated)")
	cmd.Flags().BoolVar(&noNumbers, "no-numbers", false, "omit line numbers")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")

	return cmd
}

func (c *CLI) runShow(ctx context.Context, w io.Writer, input string, fold []int, opts render.TextOptions) error {
	popts, err := c.pipelineOptions(input, fold)
	if err != nil {
		return err
	}
	runner := c.newSessionRunner()
	s, err := runner.Session(ctx, popts)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	_, err = io.WriteString(w, render.Text(s, opts))
	return err
}
