// Package render projects a block session into read-only views.
//
// # Overview
//
// None of the views mutate the session; they read blocks through
// [block.Session.Block] and the handle lists of the session:
//
//   - [Text] draws the document rows for a terminal, styled with lipgloss
//   - [Take] captures the layout as a JSON-serializable [Snapshot]
//   - [ToDOT] emits the block tree as a Graphviz graph, one cluster per
//     container, which [RenderSVG] turns into SVG
//
// # Example
//
//	s := block.New()
//	s.AttachRoot(ast.Parse(src))
//	fmt.Print(render.Text(s, render.TextOptions{LineNumbers: true}))
//
//	svg, err := render.RenderSVG(ctx, render.ToDOT(s, render.DOTOptions{}))
package render

import (
	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/block"
)

// textBlocks returns the laid-out text blocks of the document in document
// order. Folded containers are returned in place of their content.
func textBlocks(s *block.Session) []*block.Block {
	var out []*block.Block
	var walk func(h arena.Handle)
	walk = func(h arena.Handle) {
		b, err := s.Block(h)
		if err != nil || b.Hidden() {
			return
		}
		if b.IsTextBlock() {
			out = append(out, b)
			return
		}
		for _, c := range b.Children() {
			walk(c)
		}
	}
	walk(s.Root())
	return out
}

// Rows returns the laid-out text blocks of s grouped by line. A folded
// container stands in for its content.
func Rows(s *block.Session) [][]*block.Block {
	out := make([][]*block.Block, s.LastLine()+1)
	for _, b := range textBlocks(s) {
		if l := b.Line(); l >= 0 && l < len(out) {
			out[l] = append(out[l], b)
		}
	}
	return out
}
