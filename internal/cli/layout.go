package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blocktree/pkg/block"
	"github.com/matzehuels/blocktree/pkg/render"
)

// layoutCommand creates the layout command, which reports block geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		foldStr string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Report the block layout of a document",
		Long: `Report the block layout of a document.

Without --output the geometry of every text block (or every block with --all)
is printed as a table: handle, kind, line, scene position and size. With
--output the full layout is written as a JSON snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold, err := parseLines(foldStr)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], fold, output, all)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write a JSON snapshot to this file")
	cmd.Flags().StringVar(&foldStr, "fold", "", "fold the blocks starting on these lines (comma-separated)")
	cmd.Flags().BoolVar(&all, "all", false, "include container blocks in the table")

	return cmd
}

// runLayout lays out the document and prints or writes the result.
func (c *CLI) runLayout(ctx context.Context, w io.Writer, input string, fold []int, output string, all bool) error {
	opts, err := c.pipelineOptions(input, fold)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	s, err := c.newSessionRunner().Session(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	prog.done("Laid out %s", input)

	if output == "" {
		_, err := fmt.Fprintln(w, blockTable(s, all))
		return err
	}

	if err := render.Take(s).WriteFile(output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(s.Len(), s.LastLine()+1, false)
	printNewline()
	printNextStep("Render", "blocktree export "+input)

	return nil
}

// blockTable renders the geometry of the blocks of s in paint order.
func blockTable(s *block.Session, all bool) string {
	rows := [][]string{}
	var selected []bool
	for _, h := range s.Blocks() {
		b, err := s.Block(h)
		if err != nil || b.Hidden() || (!all && !b.IsTextBlock()) {
			continue
		}
		r := b.SceneRect()
		text := b.Text()
		if !b.IsTextBlock() {
			text = ""
		}
		rows = append(rows, []string{
			h.String(),
			b.Kind().String(),
			strconv.Itoa(b.Line() + 1),
			fmt.Sprintf("%.0f,%.0f", r.X, r.Y),
			fmt.Sprintf("%.0fx%.0f", r.W, r.H),
			strconv.Quote(text),
		})
		selected = append(selected, h == s.Selected())
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Handle", "Kind", "Line", "Pos", "Size", "Text").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row >= 0 && row < len(selected) && selected[row]:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 0 || col == 1:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
