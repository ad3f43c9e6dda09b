package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/blocktree/pkg/ast"
	"github.com/matzehuels/blocktree/pkg/block"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/geom"
)

const sample = `
[layout]
space_width = 12
line_height = 20
offset = 6
transition = "50ms"

[styles.keyword]
foreground = "#f92672"
bold = true

[formats.block_style]
selected = "#3b82f6"
`

func TestDecode(t *testing.T) {
	c, err := Decode([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	bc := c.Block()
	def := block.DefaultConfig()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"space width", bc.SpaceWidth, 12.0},
		{"line height", bc.LineHeight, 20.0},
		{"offset", bc.Offset, geom.Pt(6, 6)},
		{"transition", bc.Transition, 50 * time.Millisecond},
		{"char width default", bc.CharWidth, def.CharWidth},
		{"no offset default", bc.NoOffset, def.NoOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	st, err := c.Styles()
	if err != nil {
		t.Fatal(err)
	}
	if kw, ok := st.Text(ast.KindKeyword); !ok || kw.Foreground != "#f92672" || !kw.Bold {
		t.Errorf("keyword style = %+v", kw)
	}
	if st.DefaultFormat.Selected != "#3b82f6" {
		t.Errorf("selected = %q", st.DefaultFormat.Selected)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[layout"},
		{"unknown key", "[layout]\ncolumns = 3\n"},
		{"negative metric", "[layout]\nline_height = -1\n"},
		{"bad chroma name", "[layout]\nchroma_style = \"a b\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !bterr.Is(err, bterr.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestStylesUnknownKind(t *testing.T) {
	c, err := Decode([]byte("[styles.nonsense]\nbold = true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Options(); !bterr.Is(err, bterr.ErrCodeInvalidConfig) {
		t.Errorf("error = %v", err)
	}
}

func TestChromaStyle(t *testing.T) {
	c, err := Decode([]byte("[layout]\nchroma_style = \"monokai\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	st, err := c.Styles()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Text(ast.KindKeyword); !ok {
		t.Error("chroma theme did not set the keyword style")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil || c.Layout.SpaceWidth != 12 {
		t.Fatalf("Load = %+v, %v", c.Layout, err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !bterr.Is(err, bterr.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	c, err := LoadDefault()
	if err != nil || c.Block() != block.DefaultConfig() {
		t.Fatalf("LoadDefault without file = %+v, %v", c, err)
	}

	path, err := DefaultPath()
	if err != nil || path != filepath.Join(dir, "blocktree", "config.toml") {
		t.Fatalf("DefaultPath = %s, %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[layout]\nchar_width = 9\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadDefault()
	if err != nil || c.Block().CharWidth != 9 {
		t.Errorf("LoadDefault = %+v, %v", c.Layout, err)
	}
}

func TestOptionsConfigureSession(t *testing.T) {
	c, err := Decode([]byte("[layout]\nline_height = 20\n"))
	if err != nil {
		t.Fatal(err)
	}
	opts, err := c.Options()
	if err != nil {
		t.Fatal(err)
	}
	s := block.New(opts...)
	if s.Config().LineHeight != 20 {
		t.Errorf("LineHeight = %v", s.Config().LineHeight)
	}
}
