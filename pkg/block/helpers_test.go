package block

import (
	"testing"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
	"github.com/matzehuels/blocktree/pkg/geom"
)

type recordingHost struct {
	NopHost
	redraws  int
	shown    []geom.Line
	hidden   int
	finished []arena.Handle
}

func (h *recordingHost) Redraw()                           { h.redraws++ }
func (h *recordingHost) ShowInsertLine(l geom.Line)        { h.shown = append(h.shown, l) }
func (h *recordingHost) HideInsertLine()                   { h.hidden++ }
func (h *recordingHost) TransitionFinished(a arena.Handle) { h.finished = append(h.finished, a) }

func parsed(t *testing.T, src string) (*Session, *Block) {
	t.Helper()
	s := New()
	root := s.AttachRoot(ast.Parse(src))
	return s, s.get(root)
}

func program(leaves ...*ast.Element) *ast.Element {
	return ast.NewContainer("program", ast.KindProgram, leaves...)
}

func attached(t *testing.T, doc ast.Node) (*Session, *Block) {
	t.Helper()
	s := New()
	return s, s.get(s.AttachRoot(doc))
}

// textBlock returns the first visible text block showing text.
func textBlock(t *testing.T, s *Session, text string) *Block {
	t.Helper()
	for _, b := range s.paintOrder() {
		if b.IsTextBlock() && b.Text() == text {
			return b
		}
	}
	t.Fatalf("no text block %q", text)
	return nil
}

// nodeBlock returns the first block whose node renders text.
func nodeBlock(t *testing.T, s *Session, text string) *Block {
	t.Helper()
	for _, b := range s.paintOrder() {
		if b.node.Text() == text {
			return b
		}
	}
	t.Fatalf("no block rendering %q", text)
	return nil
}

func childTexts(s *Session, b *Block) []string {
	var out []string
	for _, h := range b.Children() {
		out = append(out, s.get(h).node.Text())
	}
	return out
}

// checkInvariants verifies chain consistency, line numbering and the line
// index of the document.
func checkInvariants(t *testing.T, s *Session) {
	t.Helper()
	if n := len(s.Pending()); n != 0 {
		t.Fatalf("%d blocks pending after operation", n)
	}
	root := s.get(s.Root())
	if root == nil {
		return
	}
	checkChain(t, s, root)

	last := -1
	var prev *Block
	root.walk(func(b *Block) bool {
		if b.ignoreUpdate {
			return false
		}
		if !b.IsTextBlock() {
			return true
		}
		if last >= 0 && (b.line < last || b.line > last+1) {
			t.Fatalf("leaf %q on line %d follows %q on line %d", b.Text(), b.line, prev.Text(), last)
		}
		last, prev = b.line, b
		return true
	})
	if last != s.LastLine() {
		t.Fatalf("last leaf on line %d, LastLine = %d", last, s.LastLine())
	}
	for l := 0; l <= s.LastLine(); l++ {
		if _, ok := s.LineStart(l); !ok {
			t.Fatalf("no line start for line %d of %d", l, s.LastLine())
		}
	}
	if sel := s.get(s.Selected()); sel != nil && !sel.node.IsSelectable() {
		t.Fatalf("selected block %s is not selectable", sel.self)
	}
}

func checkChain(t *testing.T, s *Session, b *Block) {
	t.Helper()
	kids := b.children()
	if !b.IsTextBlock() && len(kids) == 0 {
		t.Fatalf("container %s has no children", b.self)
	}
	prev := arena.Nil
	idx := -1
	for _, c := range kids {
		if c.prevSib != prev {
			t.Fatalf("block %s: prev = %s, want %s", c.self, c.prevSib, prev)
		}
		if c.parent != b.self {
			t.Fatalf("block %s: parent = %s, want %s", c.self, c.parent, b.self)
		}
		i := b.node.IndexOfBranch(c.node)
		if i <= idx {
			t.Fatalf("block %s: chain order disagrees with node order", c.self)
		}
		idx, prev = i, c.self
		checkChain(t, s, c)
	}
}
