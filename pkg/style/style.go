// Package style resolves text styles and block frame formats for parse-tree
// node kinds.
//
// A [Table] holds one text [Style] per [ast.Kind] plus a block [Format] per
// kind, each with a default used when the kind has no entry. Tables start
// from built-in colors ([New]), from a chroma theme ([FromChroma]) and can be
// overlaid from TOML ([Decode], [Load]).
//
// The block engine resolves styles once, when a block is constructed:
//
//	st := table.Leaf(leaf.Kind(), parent.Kind(), true)
//	fmt := table.Block(node.Kind())
package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blocktree/pkg/ast"
)

// Style is the text style of a leaf.
type Style struct {
	Foreground lipgloss.Color `toml:"foreground" json:"foreground,omitempty"`
	Bold       bool           `toml:"bold" json:"bold,omitempty"`
	Italic     bool           `toml:"italic" json:"italic,omitempty"`
}

// Lipgloss converts the style for terminal rendering.
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(s.Bold).Italic(s.Italic)
	if s.Foreground != "" {
		st = st.Foreground(s.Foreground)
	}
	return st
}

// Format holds the frame colors of a block in its various states.
type Format struct {
	Selected      lipgloss.Color `toml:"selected" json:"selected,omitempty"`
	Showing       lipgloss.Color `toml:"showing" json:"showing,omitempty"`
	Hovered       lipgloss.Color `toml:"hovered" json:"hovered,omitempty"`
	HoveredBorder lipgloss.Color `toml:"hovered_border" json:"hovered_border,omitempty"`
	Unknown       lipgloss.Color `toml:"unknown" json:"unknown,omitempty"`
}

// merge overlays the non-empty fields of o.
func (f Format) merge(o Format) Format {
	if o.Selected != "" {
		f.Selected = o.Selected
	}
	if o.Showing != "" {
		f.Showing = o.Showing
	}
	if o.Hovered != "" {
		f.Hovered = o.Hovered
	}
	if o.HoveredBorder != "" {
		f.HoveredBorder = o.HoveredBorder
	}
	if o.Unknown != "" {
		f.Unknown = o.Unknown
	}
	return f
}

// Table maps node kinds to styles and formats.
type Table struct {
	DefaultText   Style
	DefaultFormat Format

	text   map[ast.Kind]Style
	blocks map[ast.Kind]Format
}

// New returns a table with the built-in palette.
func New() *Table {
	t := &Table{
		DefaultText: Style{Foreground: "252"},
		DefaultFormat: Format{
			Selected:      "75",
			Showing:       "245",
			Hovered:       "237",
			HoveredBorder: "243",
			Unknown:       "167",
		},
		text:   make(map[ast.Kind]Style),
		blocks: make(map[ast.Kind]Format),
	}
	t.SetText(ast.KindKeyword, Style{Foreground: "205", Bold: true})
	t.SetText(ast.KindIdentifier, Style{Foreground: "252"})
	t.SetText(ast.KindNumber, Style{Foreground: "141"})
	t.SetText(ast.KindString, Style{Foreground: "186"})
	t.SetText(ast.KindComment, Style{Foreground: "242", Italic: true})
	t.SetText(ast.KindOperator, Style{Foreground: "203"})
	t.SetText(ast.KindFunctCall, Style{Foreground: "36"})
	t.SetText(ast.KindFunctDefinition, Style{Foreground: "35", Bold: true})
	t.SetText(ast.KindUnknown, Style{Foreground: "167"})
	return t
}

// SetText sets the text style of k.
func (t *Table) SetText(k ast.Kind, s Style) { t.text[k] = s }

// SetBlock sets the block format of k.
func (t *Table) SetBlock(k ast.Kind, f Format) { t.blocks[k] = f }

// Text returns the text style registered for k.
func (t *Table) Text(k ast.Kind) (Style, bool) {
	s, ok := t.text[k]
	return s, ok
}

// Block returns the block format of k, or the default format.
func (t *Table) Block(k ast.Kind) Format {
	if f, ok := t.blocks[k]; ok {
		return t.DefaultFormat.merge(f)
	}
	return t.DefaultFormat
}

// Leaf resolves the style of a text leaf: its own kind if styled, else the
// kind of its parent unless the parent is a function node, else the default.
func (t *Table) Leaf(own, parent ast.Kind, hasParent bool) Style {
	if s, ok := t.text[own]; ok {
		return s
	}
	if hasParent && !parent.IsFunction() {
		if s, ok := t.text[parent]; ok {
			return s
		}
	}
	return t.DefaultText
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		DefaultText:   t.DefaultText,
		DefaultFormat: t.DefaultFormat,
		text:          make(map[ast.Kind]Style, len(t.text)),
		blocks:        make(map[ast.Kind]Format, len(t.blocks)),
	}
	for k, s := range t.text {
		c.text[k] = s
	}
	for k, f := range t.blocks {
		c.blocks[k] = f
	}
	return c
}
