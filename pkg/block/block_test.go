package block

import (
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/geom"
	"github.com/matzehuels/blocktree/pkg/style"
)

func TestAttachRootLeaf(t *testing.T) {
	s, root := attached(t, ast.NewLeaf("x"))
	if h, ok := s.LineStart(0); !ok || h != root.self {
		t.Errorf("LineStart(0) = %s, %v", h, ok)
	}
	if s.LastLine() != 0 || s.Text() != "x" {
		t.Errorf("LastLine = %d, Text = %q", s.LastLine(), s.Text())
	}
	if !root.IsTextBlock() || !root.node.IsFloating() || root.Pos() != (geom.Point{}) {
		t.Errorf("root = text %v floating %v pos %v", root.IsTextBlock(), root.node.IsFloating(), root.Pos())
	}
}

func TestAttachSkipsUnimportant(t *testing.T) {
	wrapper := ast.NewContainer("expr", ast.KindStatement, ast.NewLeaf("y")).With(ast.Unimportant())
	_, root := attached(t, program(ast.NewLeaf("x"), wrapper))
	kids := root.children()
	if len(kids) != 2 || kids[1].Text() != "y" {
		t.Fatalf("children = %v", childTexts(root.s, root))
	}
	if root.node.IndexOfBranch(kids[1].node) != 1 {
		t.Error("wrapped leaf not found through its branch")
	}
}

func TestLines(t *testing.T) {
	s, root := parsed(t, "int x;\nint y;\n\nz;\n")
	kids := root.children()
	if len(kids) != 4 {
		t.Fatalf("children = %q", childTexts(s, root))
	}
	for i, want := range []int{0, 1, 2, 3} {
		if kids[i].Line() != want {
			t.Errorf("child %d on line %d, want %d", i, kids[i].Line(), want)
		}
		if h, _ := s.LineStart(want); want > 0 && h != kids[i].self {
			t.Errorf("LineStart(%d) = %s, want %s", want, h, kids[i].self)
		}
	}
	if s.LastLine() != 3 {
		t.Errorf("LastLine = %d", s.LastLine())
	}
	if kids[1].Pos().Y <= kids[0].Pos().Y {
		t.Errorf("second row at y=%v, first at y=%v", kids[1].Pos().Y, kids[0].Pos().Y)
	}
	if root.NumberOfLines() != 4 || !root.HasMoreLines() {
		t.Errorf("NumberOfLines = %d", root.NumberOfLines())
	}
	checkInvariants(t, s)
}

func TestPositions(t *testing.T) {
	s, root := parsed(t, "a b")
	stmt := root.first()
	a, b := textBlock(t, s, "a"), textBlock(t, s, "b")

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"statement pos", stmt.Pos(), geom.Pt(0, 1)},
		{"first leaf pos", a.Pos(), geom.Pt(0, 1)},
		{"first leaf rect", a.Rect(), geom.R(-4, 0, 15, 16)},
		{"spaced leaf pos", b.Pos(), geom.Pt(21, 1)},
		{"statement rect", stmt.Rect(), geom.R(-4, 0, 36, 18)},
		{"scene pos", b.ScenePos(), geom.Pt(21, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestShowingGrowsOffset(t *testing.T) {
	s, root := parsed(t, "a b")
	stmt := root.first()
	if err := s.SetShowing(stmt.self, true); err != nil {
		t.Fatal(err)
	}
	if stmt.Offset() != s.cfg.Offset || stmt.Pos() != geom.Pt(8, 8) {
		t.Errorf("offset %v pos %v", stmt.Offset(), stmt.Pos())
	}
}

func TestFunctionHighlight(t *testing.T) {
	tb := style.New()
	tb.SetText(ast.KindFunctCall, style.Style{Foreground: "5"})
	s := New(WithStyles(tb))
	s.AttachRoot(ast.Parse("f(x);"))
	if got := textBlock(t, s, "f").TextStyle().Foreground; got != "5" {
		t.Errorf("call name foreground = %q", got)
	}
	if got := textBlock(t, s, "x").TextStyle().Foreground; got == "5" {
		t.Error("argument took the call style")
	}
}

func TestRemove(t *testing.T) {
	s, root := parsed(t, "a\nb\n")
	a := textBlock(t, s, "a")
	before := s.Len()
	if err := s.Remove(a.self); err != nil {
		t.Fatal(err)
	}
	if s.Len() != before-2 {
		t.Errorf("Len = %d, want %d", s.Len(), before-2)
	}
	if s.Text() != "b\n" || len(root.children()) != 1 {
		t.Errorf("Text = %q", s.Text())
	}
	_, err := s.Block(a.self)
	if !errors.Is(err, ErrStaleHandle) || !bterr.Is(err, bterr.ErrCodeStaleHandle) {
		t.Errorf("Block(removed) error = %v", err)
	}
	if !root.Edited() {
		t.Error("surviving ancestor not marked edited")
	}
	checkInvariants(t, s)
}

func TestRemoveMovesLineBreakToParent(t *testing.T) {
	s, root := attached(t, program(ast.NewLeaf("a", ast.LineBreaking()), ast.NewLeaf("b")))
	if err := s.Remove(textBlock(t, s, "b").self); err != nil {
		t.Fatal(err)
	}
	a := textBlock(t, s, "a")
	if a.node.IsLineBreaking() || !root.node.IsLineBreaking() {
		t.Error("line break not moved to the parent")
	}
	if s.Text() != "a\n" {
		t.Errorf("Text = %q", s.Text())
	}
}

func TestSetParent(t *testing.T) {
	s, _ := parsed(t, "a;\nb c;\n")
	first := nodeBlock(t, s, "a;\n")
	b := textBlock(t, s, "b")
	if err := s.SetParent(b.self, first.self); err != nil {
		t.Fatal(err)
	}
	if s.Text() != "a;b\nc;\n" {
		t.Errorf("Text = %q", s.Text())
	}
	if b.Parent() != first.self || !slices.Equal(childTexts(s, first), []string{"a", ";", "b"}) {
		t.Errorf("children = %q", childTexts(s, first))
	}
	checkInvariants(t, s)

	// moving a block below itself is ignored
	if err := s.SetParent(first.self, b.self); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != first.self {
		t.Error("cycle created")
	}
}

func TestStackBefore(t *testing.T) {
	s, root := parsed(t, "a b c")
	stmt := root.first()
	a, c := textBlock(t, s, "a"), textBlock(t, s, "c")
	if err := s.StackBefore(c.self, a.self); err != nil {
		t.Fatal(err)
	}
	if got := childTexts(s, stmt); !slices.Equal(got, []string{" c", "a", " b"}) {
		t.Errorf("children = %q", got)
	}
	checkInvariants(t, s)
}

func TestStaleHandles(t *testing.T) {
	s, _ := parsed(t, "a")
	tests := []struct {
		name string
		err  error
	}{
		{"SetText", s.SetText(arena.Nil, "x")},
		{"SetSelected", s.SetSelected(arena.Nil, true)},
		{"SetFolded", s.SetFolded(arena.Nil, true)},
		{"Update", s.Update(arena.Nil, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, ErrStaleHandle) {
				t.Errorf("error = %v", tt.err)
			}
		})
	}
}

func TestAnimatorReceivesChangedGeometry(t *testing.T) {
	host := &recordingHost{}
	s := New(WithHost(host))
	s.AttachRoot(ast.Parse("a b"))
	host.finished = nil
	a, b := textBlock(t, s, "a"), textBlock(t, s, "b")
	if err := s.SplitLine(a.self, -1); err != nil {
		t.Fatal(err)
	}
	if s.Text() != "a\nb" {
		t.Errorf("Text = %q", s.Text())
	}
	if !slices.Contains(host.finished, b.self) {
		t.Error("moved block was not animated")
	}
	if host.redraws == 0 {
		t.Error("no redraw requested")
	}
}

func TestSecondRootKeepsLineIndex(t *testing.T) {
	s, root := parsed(t, "a;\nb;\nc;\n")
	third, _ := s.LineStart(2)

	z := s.AttachRoot(ast.NewLeaf("z"))
	if s.Root() != root.self {
		t.Fatalf("Root = %s, want %s", s.Root(), root.self)
	}
	if err := s.SetText(z, "zz"); err != nil {
		t.Fatal(err)
	}
	if s.LastLine() != 2 {
		t.Errorf("LastLine = %d, want 2", s.LastLine())
	}
	if h, ok := s.LineStart(2); !ok || h != third {
		t.Errorf("LineStart(2) = %s, %v, want %s", h, ok, third)
	}
	checkInvariants(t, s)
}

func TestTreeEditEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		op    func(s *Session, a, c *Block) error
		want  string
		check func(t *testing.T, s *Session, a, c *Block)
	}{
		{
			name: "reparent onto a leaf",
			op:   func(s *Session, a, c *Block) error { return s.SetParent(c.self, a.self) },
			want: "c;\nb;\n",
			check: func(t *testing.T, s *Session, a, c *Block) {
				if a.IsTextBlock() || a.text != nil {
					t.Error("new parent kept its text item")
				}
				if c.Parent() != a.self || !slices.Equal(a.Children(), []arena.Handle{c.self}) {
					t.Errorf("children of new parent = %q", childTexts(s, a))
				}
			},
		},
		{
			name: "stack before a block of another parent",
			op:   func(s *Session, a, c *Block) error { return s.StackBefore(a.self, c.self) },
			want: "a;\nb c;\n",
			check: func(t *testing.T, s *Session, a, c *Block) {
				if a.next() == nil || a.next().Text() != ";" || c.prevSib.IsNil() {
					t.Error("sibling chains changed")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := parsed(t, "a;\nb c;\n")
			a, c := textBlock(t, s, "a"), textBlock(t, s, "c")
			if err := tt.op(s, a, c); err != nil {
				t.Fatal(err)
			}
			if got := s.Text(); got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
			tt.check(t, s, a, c)
			checkInvariants(t, s)
		})
	}
}
