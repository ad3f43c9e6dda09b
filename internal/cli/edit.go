package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/blocktree/pkg/block"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/render"
)

// Editor styles
var (
	editHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	editStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	editErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// editHeader is the number of lines above the document in the editor view.
const editHeader = 3

// editCommand creates the edit command, which runs the terminal editor.
func (c *CLI) editCommand() *cobra.Command {
	var foldStr string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a document interactively as blocks",
		Long: `Edit a document interactively as blocks.

Keys:
  arrows, home, end     move the caret
  ctrl+left/right       jump to the neighbouring block
  backspace, delete     erase, joining rows at block edges
  enter                 split the row at the caret
  tab / shift+tab       select the caret's block / its parent
  ctrl+f                fold or unfold the selected block
  ctrl+s                save
  esc, ctrl+c           quit

Clicking a block puts the caret there.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fold, err := parseLines(foldStr)
			if err != nil {
				return err
			}
			return c.runEdit(cmd.Context(), args[0], fold)
		},
	}

	cmd.Flags().StringVar(&foldStr, "fold", "", "fold the blocks starting on these lines (comma-separated)")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input string, fold []int) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return bterr.New(bterr.ErrCodeUnsupported, "edit requires an interactive terminal")
	}
	opts, err := c.pipelineOptions(input, fold)
	if err != nil {
		return err
	}
	s, err := c.newSessionRunner().Session(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	p := tea.NewProgram(newEditorModel(s, input),
		tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run editor: %w", err)
	}
	if m, ok := final.(editorModel); ok && m.dirty {
		printWarning("Unsaved changes to %s discarded", input)
	}
	return nil
}

// =============================================================================
// editorModel - Interactive block editor
// =============================================================================

// editorModel is the bubbletea model of the block editor.
type editorModel struct {
	s      *block.Session
	path   string
	save   func(path string, data []byte) error
	height int
	offset int
	dirty  bool
	status string
	err    error
}

func newEditorModel(s *block.Session, path string) editorModel {
	return editorModel{
		s:      s,
		path:   path,
		save:   func(path string, data []byte) error { return os.WriteFile(path, data, 0o644) },
		height: 20,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		m.status = ""
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			if err := m.save(m.path, []byte(m.s.Text())); err != nil {
				m.err = err
			} else {
				m.dirty = false
				m.status = "Saved " + m.path
			}
		case "tab":
			if h, _ := m.s.Cursor(); !h.IsNil() {
				m.err = m.s.SetSelected(h, true)
			}
		case "shift+tab":
			m.selectParent()
		case "ctrl+f":
			m.toggleFold()
		case "ctrl+left":
			m.apply(func() error { return m.s.MoveCursor(block.KeyLeft) })
		case "ctrl+right":
			m.apply(func() error { return m.s.MoveCursor(block.KeyRight) })
		default:
			if k, ok := block.ParseKey(msg.String()); ok {
				m.edit(func() error { return m.s.HandleKey(k) })
				break
			}
			switch msg.Type {
			case tea.KeyRunes:
				text := string(msg.Runes)
				m.edit(func() error { return m.s.InsertText(text) })
			case tea.KeySpace:
				m.edit(func() error { return m.s.InsertText(" ") })
			}
		}
		m.scrollToCaret()
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y-editHeader+m.offset)
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-editHeader-2, 5)
		m.scrollToCaret()
	}
	return m, nil
}

// apply runs a caret operation, placing the caret on the first text block
// when there is none yet.
func (m *editorModel) apply(op func() error) {
	err := op()
	if errors.Is(err, block.ErrNoFocus) {
		if first := firstTextBlock(m.s); first != nil {
			if err = m.s.SetCursor(first.Handle(), 0); err == nil {
				err = op()
			}
		}
	}
	m.err = err
}

// edit runs op and marks the document dirty when it changes the text.
func (m *editorModel) edit(op func() error) {
	before := m.s.Text()
	m.apply(op)
	if m.s.Text() != before {
		m.dirty = true
	}
}

func (m *editorModel) selectParent() {
	sel, err := m.s.Block(m.s.Selected())
	if err != nil {
		return
	}
	if p := sel.Parent(); !p.IsNil() {
		m.err = m.s.SetSelected(p, true)
	}
}

func (m *editorModel) toggleFold() {
	sel, err := m.s.Block(m.s.Selected())
	if err != nil {
		m.status = "Nothing selected (tab selects the block under the caret)"
		return
	}
	if !m.s.HasFoldControl(sel.Handle()) {
		m.status = "Block cannot be folded"
		return
	}
	m.err = m.s.SetFolded(sel.Handle(), !sel.Folded())
}

// click places the caret at column x of document row y.
func (m *editorModel) click(x, y int) {
	rows := render.Rows(m.s)
	if y < 0 || y >= len(rows) {
		return
	}
	col := x - gutterWidth(len(rows))
	for _, b := range rows[y] {
		col -= b.LeadingSpaces()
		w := runewidth.StringWidth(b.Text())
		if col <= w {
			if !b.Folded() {
				m.err = m.s.SetCursor(b.Handle(), runeIndex(b.Text(), max(col, 0)))
			} else {
				m.err = m.s.SetSelected(b.Handle(), true)
			}
			return
		}
		col -= w
	}
	if row := rows[y]; len(row) > 0 && !row[len(row)-1].Folded() {
		m.err = m.s.SetCursor(row[len(row)-1].Handle(), -1)
	}
}

// scrollToCaret keeps the caret row inside the viewport.
func (m *editorModel) scrollToCaret() {
	h, _ := m.s.Cursor()
	b, err := m.s.Block(h)
	if err != nil {
		return
	}
	line := b.Line()
	if line < m.offset {
		m.offset = line
	}
	if line >= m.offset+m.height {
		m.offset = line - m.height + 1
	}
}

func (m editorModel) View() string {
	var b strings.Builder

	title := m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(editHelpStyle.Render("tab select  ctrl+f fold  ctrl+s save  esc quit"))
	b.WriteString("\n\n")

	lines := strings.Split(strings.TrimSuffix(render.Text(m.s, render.TextOptions{
		LineNumbers: true,
		Caret:       true,
	}), "\n"), "\n")
	end := min(m.offset+m.height, len(lines))
	for i := m.offset; i < end; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(editErrorStyle.Render(bterr.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(editStatusStyle.Render(m.status))
	default:
		b.WriteString(editStatusStyle.Render(m.position()))
	}
	return b.String()
}

// position describes the caret and selection for the status line.
func (m editorModel) position() string {
	parts := []string{fmt.Sprintf("%d lines", m.s.LastLine()+1)}
	if h, pos := m.s.Cursor(); !h.IsNil() {
		if b, err := m.s.Block(h); err == nil {
			parts = append(parts, fmt.Sprintf("line %d, col %d", b.Line()+1, pos+1))
		}
	}
	if sel, err := m.s.Block(m.s.Selected()); err == nil {
		parts = append(parts, "selected "+sel.Kind().String())
	}
	return strings.Join(parts, "  ·  ")
}

// =============================================================================
// Helpers
// =============================================================================

// gutterWidth is the width of the line number column for n rows.
func gutterWidth(n int) int {
	return len(fmt.Sprint(n)) + 1
}

// runeIndex converts a display column inside s to a rune index.
func runeIndex(s string, col int) int {
	i, w := 0, 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > col {
			break
		}
		w += rw
		i++
	}
	return i
}

func firstTextBlock(s *block.Session) *block.Block {
	for _, row := range render.Rows(s) {
		for _, b := range row {
			if !b.Folded() {
				return b
			}
		}
	}
	return nil
}
