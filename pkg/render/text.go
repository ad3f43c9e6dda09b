package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blocktree/pkg/block"
)

// TextOptions configures [Text].
type TextOptions struct {
	// LineNumbers prefixes every row with its 1-based number.
	LineNumbers bool
	// Caret marks the caret position.
	Caret bool
	// Plain disables styling; the caret is drawn as "|".
	Plain bool
}

var (
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	caretStyle  = lipgloss.NewStyle().Reverse(true)
	foldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Text renders the document rows of s.
func Text(s *block.Session, opts TextOptions) string {
	caretAt, caretPos := s.Cursor()
	if !opts.Caret {
		caretAt = s.Root()
		caretPos = -1
	}
	all := Rows(s)
	width := len(fmt.Sprint(len(all)))

	var buf strings.Builder
	for i, row := range all {
		if opts.LineNumbers {
			num := fmt.Sprintf("%*d ", width, i+1)
			if !opts.Plain {
				num = gutterStyle.Render(num)
			}
			buf.WriteString(num)
		}
		for _, b := range row {
			buf.WriteString(strings.Repeat(" ", b.LeadingSpaces()))
			pos := -1
			if b.Handle() == caretAt {
				pos = caretPos
			}
			buf.WriteString(cell(b, pos, opts.Plain))
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// cell renders one text block with the caret at pos, or without one when
// pos is negative.
func cell(b *block.Block, pos int, plain bool) string {
	text := []rune(b.Text())
	st := b.TextStyle().Lipgloss()
	if b.Folded() {
		st = foldStyle
	}
	render := func(r []rune) string {
		if plain || len(r) == 0 {
			return string(r)
		}
		return st.Render(string(r))
	}
	if pos < 0 || pos > len(text) {
		return render(text)
	}
	if plain {
		return string(text[:pos]) + "|" + string(text[pos:])
	}
	under := " "
	rest := text[pos:]
	if len(rest) > 0 {
		under, rest = string(rest[0]), rest[1:]
	}
	return render(text[:pos]) + caretStyle.Render(under) + render(rest)
}
