package block

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/blocktree/pkg/geom"
)

// TextItem is the editable text of a text block. Widths are measured in
// terminal cells so wide runes take two columns.
type TextItem struct {
	text string
}

func newTextItem(text string) *TextItem { return &TextItem{text: text} }

func (t *TextItem) Text() string        { return t.text }
func (t *TextItem) SetText(text string) { t.text = text }

// Len returns the number of runes.
func (t *TextItem) Len() int { return utf8.RuneCountInString(t.text) }

// Cells returns the display width in cells.
func (t *TextItem) Cells() int { return runewidth.StringWidth(t.text) }

// Resolve maps a caret position to a rune offset. Negative positions count
// from the end: -1 is after the last rune, -2 before it.
func (t *TextItem) Resolve(pos int) int {
	n := t.Len()
	if pos < 0 {
		pos = n + 1 + pos
	}
	return min(max(pos, 0), n)
}

// Insert inserts s before rune offset pos.
func (t *TextItem) Insert(pos int, s string) {
	r := []rune(t.text)
	pos = min(max(pos, 0), len(r))
	t.text = string(r[:pos]) + s + string(r[pos:])
}

// RemoveCharAt removes one rune. Negative positions count from the end, so
// -1 removes the last rune. It reports whether a rune was removed.
func (t *TextItem) RemoveCharAt(pos int) bool {
	r := []rune(t.text)
	if pos < 0 {
		pos += len(r)
	}
	if pos < 0 || pos >= len(r) {
		return false
	}
	t.text = string(append(r[:pos], r[pos+1:]...))
	return true
}

// Split cuts the text at rune offset pos, keeps the head and returns the
// tail.
func (t *TextItem) Split(pos int) string {
	r := []rune(t.text)
	pos = min(max(pos, 0), len(r))
	t.text = string(r[:pos])
	return string(r[pos:])
}

// BoundingRect returns the item's rect in block coordinates. The text
// starts at the block origin; the margin extends left of it.
func (t *TextItem) BoundingRect(c Config) geom.Rect {
	w := float64(t.Cells()) * c.CharWidth
	return geom.R(-c.TextMargin, 0, w+2*c.TextMargin, c.LineHeight)
}

// ColumnAt returns the caret position nearest to x, in block coordinates.
func (t *TextItem) ColumnAt(x float64, c Config) int {
	if c.CharWidth <= 0 {
		return 0
	}
	var (
		col   int
		cells float64
	)
	for _, r := range t.text {
		w := float64(runewidth.RuneWidth(r)) * c.CharWidth
		if x < cells+w/2 {
			return col
		}
		cells += w
		col++
	}
	return col
}
