package block

import (
	"slices"
	"time"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
	"github.com/matzehuels/blocktree/pkg/geom"
)

// prevVisible returns the nearest previous sibling that takes part in
// layout.
func (b *Block) prevVisible() *Block {
	p := b.prev()
	for p != nil && p.ignoreUpdate {
		p = p.prev()
	}
	return p
}

func (b *Block) numberOfLines() int {
	if b.IsTextBlock() {
		return 1
	}
	last := b.lastChild()
	if last == nil {
		panic("block: container without children")
	}
	return last.line + last.numberOfLines() - b.line
}

func (b *Block) hasMoreLines() bool {
	if b.IsTextBlock() {
		return false
	}
	last := b.lastChild()
	if last == nil {
		panic("block: container without children")
	}
	return last.line > b.line || last.hasMoreLines()
}

func (b *Block) computeLine() int {
	prev := b.prevVisible()
	if prev == nil {
		if p := b.parentBlock(); p != nil {
			return p.line
		}
		return 0
	}
	n := prev.line + prev.numberOfLines() - 1
	if prev.node.IsLineBreaking() {
		n++
	}
	return n
}

// mapTo maps p from the coordinates of b into those of its ancestor anc.
func (b *Block) mapTo(anc *Block, p geom.Point) geom.Point {
	for c := b; c != nil && c != anc; c = c.parentBlock() {
		p = p.Add(c.pos)
	}
	return p
}

// computePos places b after its previous visible sibling: to its right when
// the sibling continues the row, below every earlier sibling when it ends
// the row. Floating and dragged blocks keep their position.
func (b *Block) computePos() geom.Point {
	if b.node.IsFloating() || b.dragging {
		return b.pos
	}
	var p geom.Point
	parent := b.parentBlock()
	if prev := b.prevVisible(); prev != nil {
		if !prev.node.IsLineBreaking() || parent == nil {
			var offs geom.Point
			if prev.hasMoreLines() {
				leaf := prev.lastLeaf()
				p = leaf.mapTo(prev, leaf.rect.TopRight())
				if prev.showing {
					p.X = prev.rect.Right()
					offs = prev.Offset()
				} else {
					offs = leaf.Offset()
				}
			} else {
				p = prev.rect.TopRight()
				offs = prev.Offset()
			}
			p = p.Add(prev.pos)
			p.X += offs.X
			p.Y -= offs.Y
		} else {
			var maxY, offsY float64
			for _, c := range parent.children() {
				if y := c.pos.Y + c.rect.Bottom(); y > maxY {
					maxY = y
					offsY = c.Offset().Y
				}
				if c.self == b.prevSib {
					break
				}
			}
			p.Y = maxY + offsY
		}
	}
	p = p.Add(b.Offset())
	p.X += float64(b.node.Spaces()) * b.s.cfg.SpaceWidth
	return p
}

// computeRect returns the text rect of a text block, or the union of the
// laid-out children's geometries grown by their offsets.
func (b *Block) computeRect() geom.Rect {
	if b.IsTextBlock() {
		return b.text.BoundingRect(b.s.cfg).Adjust(0, 0, -1, 0)
	}
	var r geom.Rect
	for _, c := range b.children() {
		if c.ignoreUpdate || c.node.IsFloating() {
			continue
		}
		o := c.Offset()
		r = r.Union(c.Geometry().Adjust(-o.X, -o.Y, o.X, o.Y))
	}
	return r
}

// reconcileControl creates or drops the fold control. Folded blocks keep
// theirs so they can be unfolded.
func (b *Block) reconcileControl() {
	want := b.folded || (b.node.IsSelectable() && b.node.Kind() != ast.KindBlock && b.hasMoreLines())
	if !want {
		b.control = nil
		return
	}
	if b.control == nil {
		b.control = &FoldControl{Visible: true}
	}
	b.control.Pos = geom.Pt(b.rect.Left()-b.s.cfg.ControlSize, b.rect.Top())
}

func (b *Block) setControlsVisible(v bool) {
	b.walk(func(c *Block) bool {
		if c.control != nil {
			c.control.Visible = v
		}
		return true
	})
}

// updateBlock recomputes b and its laid-out descendants top-down. When
// index is set the line starts of the pass are recorded.
func (b *Block) updateBlock(index bool, visited *int) {
	s := b.s
	*visited++
	if !b.toAnimate {
		b.lastGeometry = b.Geometry()
		b.toAnimate = true
	}
	b.line = b.computeLine()
	if index {
		if b.parent.IsNil() {
			s.lineStarts[b.line] = b.self
		}
		if b.line > s.lastLine {
			s.lineStarts[b.line] = b.self
		}
		s.lastLine = b.line
	}
	b.pos = b.computePos()
	for _, c := range b.children() {
		if !c.ignoreUpdate {
			c.updateBlock(index, visited)
		}
	}
	b.rect = b.computeRect()
	b.reconcileControl()
}

// updateAll recomputes the whole tree b belongs to, starting from its main
// block, then starts the geometry transitions.
func (b *Block) updateAll(animate bool) {
	s := b.s
	start := time.Now()
	main := b.mainBlock()
	index := main.self == s.root
	visited := 0
	main.updateBlock(index, &visited)
	if index {
		for line := range s.lineStarts {
			if line > s.lastLine {
				delete(s.lineStarts, line)
			}
		}
	}
	main.animate(animate)
	s.reportPass(main, visited, start)
}

// animate starts the transitions armed by the last pass. Unchanged
// geometries are not animated.
func (b *Block) animate(enabled bool) {
	if b.toAnimate {
		b.toAnimate = false
		if to := b.Geometry(); enabled && to != b.lastGeometry {
			b.s.anim.Start(b.self, b.lastGeometry, to)
		}
	}
	for _, c := range b.children() {
		c.animate(enabled)
	}
}

// BlocksAt returns the visible blocks whose scene rect contains p, topmost
// first.
func (s *Session) BlocksAt(p geom.Point) []arena.Handle {
	var hits []arena.Handle
	for _, b := range s.paintOrder() {
		if b.SceneRect().Contains(p) {
			hits = append(hits, b.self)
		}
	}
	slices.Reverse(hits)
	return hits
}

// paintOrder lists visible blocks bottom-most first.
func (s *Session) paintOrder() []*Block {
	var out []*Block
	for _, r := range s.Roots() {
		s.get(r).walk(func(b *Block) bool {
			if b.ignoreUpdate {
				return false
			}
			out = append(out, b)
			return true
		})
	}
	return out
}
