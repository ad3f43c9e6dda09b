package block

import (
	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/geom"
	"github.com/matzehuels/blocktree/pkg/observability"
)

// PointerDown presses at scene point p. The caret is placed into a text
// block that was hit, and the nearest selectable block at p becomes the
// grabbed block receiving subsequent moves. It returns the grabbed block.
func (s *Session) PointerDown(p geom.Point) arena.Handle {
	s.grab = arena.Nil
	s.press = p
	hits := s.BlocksAt(p)
	if len(hits) == 0 {
		s.finish()
		return arena.Nil
	}
	for b := s.get(hits[0]); b != nil; b = b.parentBlock() {
		b.pointerDown(p)
		if b.node.IsSelectable() {
			s.grab = b.self
			s.grabOffset = b.ScenePos().Sub(p)
			break
		}
	}
	s.finish()
	return s.grab
}

func (b *Block) pointerDown(p geom.Point) {
	s := b.s
	switch {
	case b.IsTextBlock() && !b.folded:
		local := p.Sub(b.ScenePos())
		s.setCursor(b, b.text.ColumnAt(local.X, s.cfg))
		b.setSelected(true)
	case b.node.IsSelectable() && s.selected != b.self:
		s.setCursor(b.firstLeaf(), 0)
		b.setSelected(true)
	}
}

// PointerMove drags the grabbed block to scene point p. Once the pointer
// has travelled past the drag threshold the block is detached from its
// parent and follows the pointer while the drop target under it is
// tracked and shown.
func (s *Session) PointerMove(p geom.Point) {
	if b := s.get(s.grab); b != nil {
		b.pointerMove(p)
	}
	s.finish()
}

func (b *Block) pointerMove(p geom.Point) {
	s := b.s
	if !b.node.IsSelectable() {
		return
	}
	if b.node.IsFloating() {
		b.moveStarted = true
		b.elevated = true
		b.pos = p.Add(s.grabOffset)
		return
	}
	if !b.moveStarted {
		if (geom.Line{P1: s.press, P2: p}).Length() < s.cfg.DragThreshold {
			return
		}
		if op := b.parentBlock(); op != nil {
			op.setShowing(false, nil)
			b.pos = b.ScenePos()
			toDelete, _ := b.removeBlock()
			s.retire(toDelete...)
		}
		b.moveStarted = true
		b.dragging = true
		b.elevated = true
		b.setControlsVisible(false)
		b.futureParent, b.futureSibling = arena.Nil, arena.Nil
		s.logger.Debug("drag started", "block", b.self)
		observability.Drag().OnDragStart(s.ctx, b.self.String())
	}

	pastParent, pastSibling := b.futureParent, b.futureSibling
	if fp := s.get(pastParent); fp != nil {
		fp.showing = false
	}
	if fs := s.get(pastSibling); fs != nil {
		fs.showing = false
	}

	search := b.pos.Sub(s.cfg.Offset.Scale(2))
	if fp := b.findFutureParentAt(search); fp != nil {
		fs := fp.findNextChildAt(search.Sub(fp.ScenePos()))
		b.futureParent, b.futureSibling = fp.self, handleOf(fs)
		fp.showing = true
		if fs != nil {
			fs.showing = true
		}
		if pastParent != b.futureParent || pastSibling != b.futureSibling {
			fp.updateAll(false)
		}
		s.host.ShowInsertLine(fp.insertLineAt(fs, b.node.IsLineBreaking()))
	} else {
		b.futureParent, b.futureSibling = arena.Nil, arena.Nil
		s.host.HideInsertLine()
		if past := s.get(pastParent); past != nil && !s.isPending(past) {
			past.updateAll(false)
		}
	}
	b.pos = p.Add(s.grabOffset)
}

// PointerUp releases the grabbed block. A dragged block is inserted at the
// tracked drop target, or retired when there is none.
func (s *Session) PointerUp(p geom.Point) {
	if b := s.get(s.grab); b != nil {
		b.pointerUp(p)
	}
	s.grab = arena.Nil
	s.finish()
}

func (b *Block) pointerUp(geom.Point) {
	s := b.s
	if !b.node.IsSelectable() {
		return
	}
	if !b.node.IsFloating() && b.moveStarted {
		b.dragging = false
		fp := s.get(b.futureParent)
		if fp != nil && !s.isPending(fp) {
			drop := b.pos
			fp.showing = false
			b.setParentItem(fp)
			if fs := s.get(b.futureSibling); fs != nil {
				b.stackBefore(fs)
				fs.showing = false
			}
			fp.edited = true
			fp.setShowing(true, nil)
			b.pos = b.computePos()
			b.rect = b.computeRect()
			b.lastGeometry = b.rect.Translate(drop.Sub(fp.ScenePos()))
			b.toAnimate = true
			b.updateAll(true)
			s.logger.Debug("drag committed", "block", b.self, "parent", fp.self)
			observability.Drag().OnDragEnd(s.ctx, b.self.String(), fp.self.String(), true)
		} else {
			s.retire(b)
			s.logger.Debug("drag discarded", "block", b.self)
			observability.Drag().OnDragEnd(s.ctx, b.self.String(), "", false)
		}
		b.futureParent, b.futureSibling = arena.Nil, arena.Nil
		s.host.HideInsertLine()
		b.setControlsVisible(true)
	}
	b.elevated = false
	b.moveStarted = false
}

// findFutureParentAt returns the topmost selectable container at scene
// point p that could receive b: neither b nor one of its descendants.
func (b *Block) findFutureParentAt(p geom.Point) *Block {
	s := b.s
	for _, h := range s.BlocksAt(p) {
		c := s.get(h)
		if c != b && !c.IsTextBlock() && c.node.IsSelectable() && !c.node.HasAncestor(b.node) {
			return c
		}
	}
	return nil
}

// findNextChildAt returns the child whose top-left corner is nearest to p,
// in b's coordinates. Nil means p is nearest to the end of the last child
// and the drop appends.
func (b *Block) findNextChildAt(p geom.Point) *Block {
	kids := b.children()
	if len(kids) == 0 {
		return nil
	}
	var next *Block
	minDist := p.Length()
	for _, c := range kids {
		if d := c.pos.Add(c.rect.TopLeft()).Sub(p).Length(); d < minDist {
			minDist = d
			next = c
		}
	}
	last := kids[len(kids)-1]
	if last.pos.Add(last.rect.TopRight()).Sub(p).Length() < minDist {
		return nil
	}
	return next
}

// insertLineAt returns the drop guide, in scene coordinates, for a block
// inserted into b before next, or appended when next is nil.
func (b *Block) insertLineAt(next *Block, breaking bool) geom.Line {
	off := b.s.cfg.Offset.Scale(0.5)
	if next != nil {
		r := next.SceneRect()
		if breaking && (next.prevSib.IsNil() || next.prev().node.IsLineBreaking()) {
			return geom.Line{P1: r.TopLeft().Sub(off), P2: r.TopRight().Add(geom.Pt(off.X, -off.Y))}
		}
		return geom.Line{P1: r.TopLeft().Sub(off), P2: r.BottomLeft().Add(geom.Pt(-off.X, off.Y))}
	}
	last := b.lastChild()
	if last == nil {
		return geom.Line{}
	}
	r := last.SceneRect()
	if last.node.IsLineBreaking() {
		return geom.Line{P1: r.BottomLeft().Add(geom.Pt(0, off.Y)), P2: r.BottomRight().Add(geom.Pt(0, off.Y))}
	}
	return geom.Line{P1: r.TopRight().Add(geom.Pt(off.X, 0)), P2: r.BottomRight().Add(geom.Pt(off.X, 0))}
}

// InsertLine returns the drop guide for inserting before sibling in parent,
// or after its last child when sibling is nil.
func (s *Session) InsertLine(parent, sibling arena.Handle, breaking bool) (geom.Line, error) {
	p, err := s.lookup(parent)
	if err != nil {
		return geom.Line{}, err
	}
	var sib *Block
	if !sibling.IsNil() {
		if sib, err = s.lookup(sibling); err != nil {
			return geom.Line{}, err
		}
	}
	return p.insertLineAt(sib, breaking), nil
}
