package render

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blocktree/pkg/ast"
	"github.com/matzehuels/blocktree/pkg/block"
)

func session(t *testing.T, src string) *block.Session {
	t.Helper()
	s := block.New()
	s.AttachRoot(ast.Parse(src))
	return s
}

// leaf finds the text block showing text.
func leaf(t *testing.T, s *block.Session, text string) *block.Block {
	t.Helper()
	for _, b := range textBlocks(s) {
		if b.Text() == text {
			return b
		}
	}
	t.Fatalf("no text block %q", text)
	return nil
}

func TestText(t *testing.T) {
	s := session(t, "int x;\n  y;\n")
	if err := s.SetCursor(leaf(t, s, "x").Handle(), 1); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts TextOptions
		want string
	}{
		{"plain", TextOptions{Plain: true}, "int x;\n  y;\n"},
		{"line numbers", TextOptions{Plain: true, LineNumbers: true}, "1 int x;\n2   y;\n"},
		{"caret", TextOptions{Plain: true, Caret: true}, "int x|;\n  y;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(s, tt.opts); got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextFolded(t *testing.T) {
	s := session(t, "if (x) {\n  y;\n}\nz;\n")
	stmt, err := s.Block(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetFolded(stmt.Children()[0], true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(Text(s, TextOptions{Plain: true}), "\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "if (x)") || lines[1] != "z;" {
		t.Errorf("lines = %q", lines)
	}
}

func TestCellStyled(t *testing.T) {
	s := session(t, "ab")
	b := leaf(t, s, "ab")
	got := cell(b, 2, false)
	want := b.TextStyle().Lipgloss().Render("ab") + caretStyle.Render(" ")
	if got != want {
		t.Errorf("cell = %q, want %q", got, want)
	}
	if got := cell(b, -1, true); got != "ab" {
		t.Errorf("cell without caret = %q", got)
	}
}

func TestTake(t *testing.T) {
	s := session(t, "a;\nb;\n")
	if err := s.SetSelected(leaf(t, s, "b").Handle(), true); err != nil {
		t.Fatal(err)
	}
	sn := Take(s)
	if len(sn.Blocks) != s.Len() || len(sn.Lines) != s.LastLine()+1 {
		t.Errorf("blocks %d lines %d", len(sn.Blocks), len(sn.Lines))
	}
	if sn.Text != "a;\nb;\n" || sn.Selected != s.Selected().String() || sn.Caret != nil {
		t.Errorf("snapshot = %+v", sn)
	}
	var showing int
	for _, b := range sn.Blocks {
		if b.Showing {
			showing++
		}
	}
	if showing == 0 {
		t.Error("no showing block in snapshot")
	}

	data, err := sn.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"session", "root", "last_line", "lines", "selected", "blocks"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestSnapshotWriteFile(t *testing.T) {
	s := session(t, "a b")
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := Take(s).WriteFile(path); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Take(s).Write(&buf); err != nil {
		t.Fatal(err)
	}
	sn, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if sn.Text != "a b" || sn.Root != s.Root().String() {
		t.Errorf("read back %+v", sn)
	}
}

func TestToDOT(t *testing.T) {
	s := session(t, "f(x);\nz;\n")
	dot := ToDOT(s, DOTOptions{})

	for _, want := range []string{
		"digraph G {",
		`subgraph "cluster_` + s.Root().String() + `"`,
		`label="program"`,
		`label="funct_call"`,
		`label="f"`,
		"[style=invis]",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Count(dot, "{") != strings.Count(dot, "}") {
		t.Error("unbalanced braces")
	}

	detailed := ToDOT(s, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, "line: 1") {
		t.Errorf("detailed labels missing line numbers:\n%s", detailed)
	}
}

func TestToDOTFolded(t *testing.T) {
	s := session(t, "if (x) {\n  y;\n}\n")
	root, _ := s.Block(s.Root())
	if err := s.SetFolded(root.Children()[0], true); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(s, DOTOptions{})
	if !strings.Contains(dot, "dashed") || strings.Contains(dot, `label="y"`) {
		t.Errorf("folded DOT:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering")
	}
	s := session(t, "a b;\n")
	svg, err := RenderSVG(context.Background(), ToDOT(s, DOTOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("viewBox not normalized: %.200s", svg)
	}
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("invalid DOT accepted")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("got %s", got)
	}
	if plain := []byte("<svg><g/></svg>"); string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox changed")
	}
}

func TestSceneSVG(t *testing.T) {
	s := session(t, "a b;\nc;\n")
	root, _ := s.Block(s.Root())
	if err := s.SetSelected(root.Children()[1], true); err != nil {
		t.Fatal(err)
	}
	svg := string(SceneSVG(s, SceneOptions{Padding: 4}))
	if got, want := strings.Count(svg, `class="leaf"`), len(textBlocks(s)); got != want {
		t.Errorf("%d leaves drawn, want %d", got, want)
	}
	if !strings.Contains(svg, `class="frame selected"`) {
		t.Error("selected frame not drawn")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("unterminated svg")
	}
	all := string(SceneSVG(s, SceneOptions{Frames: true}))
	if strings.Count(all, `class="frame`) <= strings.Count(svg, `class="frame`) {
		t.Error("Frames did not add container frames")
	}
}

func TestSVGColor(t *testing.T) {
	tests := []struct {
		in   lipgloss.Color
		want string
	}{
		{"", "black"},
		{"#123456", "#123456"},
		{"1", "#800000"},
		{"196", "#ff0000"},
	}
	for _, tt := range tests {
		if got := svgColor(tt.in); got != tt.want {
			t.Errorf("svgColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
