package style

import (
	"testing"

	"github.com/matzehuels/blocktree/pkg/ast"
)

func TestLeafResolution(t *testing.T) {
	tb := New()
	kw, _ := tb.Text(ast.KindKeyword)
	tb.SetText(ast.KindStatement, Style{Foreground: "1"})

	tests := []struct {
		name      string
		own       ast.Kind
		parent    ast.Kind
		hasParent bool
		want      Style
	}{
		{"own kind", ast.KindKeyword, ast.KindStatement, true, kw},
		{"parent kind", ast.KindText, ast.KindStatement, true, Style{Foreground: "1"}},
		{"function parent ignored", ast.KindText, ast.KindFunctCall, true, tb.DefaultText},
		{"no parent", ast.KindText, ast.KindStatement, false, tb.DefaultText},
		{"unstyled parent", ast.KindText, ast.KindBlock, true, tb.DefaultText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tb.Leaf(tt.own, tt.parent, tt.hasParent); got != tt.want {
				t.Errorf("Leaf = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBlockFormatMerge(t *testing.T) {
	tb := New()
	tb.SetBlock(ast.KindBlock, Format{Selected: "9"})
	f := tb.Block(ast.KindBlock)
	if f.Selected != "9" || f.Showing != tb.DefaultFormat.Showing {
		t.Errorf("Block(block) = %+v", f)
	}
	if tb.Block(ast.KindStatement) != tb.DefaultFormat {
		t.Error("unregistered kind should use the default format")
	}
}

func TestDecode(t *testing.T) {
	data := []byte(`
[styles.text_style]
foreground = "#ffffff"

[styles.keyword]
foreground = "#f92672"
bold = true

[formats.block_style]
selected = "#3b82f6"

[formats.funct_call]
hovered = "#e5e7eb"
`)
	tb := New()
	if err := Decode(data, tb); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tb.DefaultText.Foreground != "#ffffff" {
		t.Errorf("default text = %+v", tb.DefaultText)
	}
	if s, _ := tb.Text(ast.KindKeyword); s.Foreground != "#f92672" || !s.Bold {
		t.Errorf("keyword = %+v", s)
	}
	f := tb.Block(ast.KindFunctCall)
	if f.Selected != "#3b82f6" || f.Hovered != "#e5e7eb" {
		t.Errorf("funct_call format = %+v", f)
	}

	if err := Decode([]byte("[styles.bogus]\nbold = true\n"), New()); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestFromChroma(t *testing.T) {
	tb := FromChroma("monokai")
	s, ok := tb.Text(ast.KindKeyword)
	if !ok || s.Foreground == "" {
		t.Errorf("keyword style not taken from theme: %+v", s)
	}
	if FromChroma("") == nil {
		t.Error("empty name should fall back to the default theme")
	}
}

func TestClone(t *testing.T) {
	a := New()
	b := a.Clone()
	b.SetText(ast.KindKeyword, Style{Foreground: "1"})
	if s, _ := a.Text(ast.KindKeyword); s.Foreground == "1" {
		t.Error("Clone shares state")
	}
}
