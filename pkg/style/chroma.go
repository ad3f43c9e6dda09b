package style

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blocktree/pkg/ast"
)

// DefaultChromaStyle is used by [FromChroma] for an empty name.
const DefaultChromaStyle = "monokai"

var chromaTokens = map[ast.Kind]chroma.TokenType{
	ast.KindKeyword:         chroma.Keyword,
	ast.KindIdentifier:      chroma.Name,
	ast.KindNumber:          chroma.LiteralNumber,
	ast.KindString:          chroma.LiteralString,
	ast.KindComment:         chroma.Comment,
	ast.KindOperator:        chroma.Operator,
	ast.KindPunctuation:     chroma.Punctuation,
	ast.KindFunctCall:       chroma.NameFunction,
	ast.KindFunctDefinition: chroma.NameFunction,
	ast.KindUnknown:         chroma.Error,
}

// FromChroma builds a table from a chroma theme. Unknown names fall back to
// chroma's own fallback style. Block formats keep the built-in palette
// except for the unknown-node frame, which takes the theme's error color.
func FromChroma(name string) *Table {
	if name == "" {
		name = DefaultChromaStyle
	}
	cs := styles.Get(name)
	t := New()

	base := cs.Get(chroma.Text)
	if base.Colour.IsSet() {
		t.DefaultText = Style{Foreground: lipgloss.Color(base.Colour.String())}
	}
	for k, tt := range chromaTokens {
		entry := cs.Get(tt)
		if !entry.Colour.IsSet() {
			continue
		}
		t.SetText(k, Style{
			Foreground: lipgloss.Color(entry.Colour.String()),
			Bold:       entry.Bold == chroma.Yes,
			Italic:     entry.Italic == chroma.Yes,
		})
	}
	if e := cs.Get(chroma.Error); e.Colour.IsSet() {
		t.DefaultFormat.Unknown = lipgloss.Color(e.Colour.String())
	}
	return t
}

// ChromaStyles lists the registered chroma theme names.
func ChromaStyles() []string {
	return styles.Names()
}
