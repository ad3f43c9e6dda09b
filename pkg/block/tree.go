package block

import (
	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
)

// newBlock wraps node in a block, building the subtree for its important
// descendants. Unimportant wrappers are skipped: the block wraps their
// first descendant that is important.
func (s *Session) newBlock(node ast.Node, parent *Block) *Block {
	b := &Block{s: s}
	b.self = s.blocks.Alloc(b)

	if parent != nil {
		b.parent = parent.self
		parent.text = nil
		if node.Parent() == nil {
			parent.node.AppendChild(node)
		}
	}
	for !node.IsImportant() && node.ChildCount() > 0 {
		node = node.Child(0)
	}
	b.node = node
	node.SetBlock(b.self)

	if parent != nil {
		b.link(parent)
	} else {
		node.SetFloating(true)
	}
	b.line = b.computeLine()

	if node.IsLeaf() {
		b.text = newTextItem(node.Type())
		if p := node.Parent(); p != nil {
			b.textStyle = s.styles.Leaf(node.Kind(), p.Kind(), true)
		} else {
			b.textStyle = s.styles.Leaf(node.Kind(), ast.KindText, false)
		}
	} else {
		for _, c := range node.Children() {
			s.newBlock(c, b)
		}
		b.highlight()
	}
	b.format = s.styles.Block(node.Kind())

	b.pos = b.computePos()
	b.rect = b.computeRect()
	b.reconcileControl()
	return b
}

// highlight applies the function-name style of function containers.
func (b *Block) highlight() {
	st, ok := b.s.styles.Text(b.node.Kind())
	if !ok {
		return
	}
	switch b.node.Kind() {
	case ast.KindFunctCall:
		if f := b.first(); f != nil {
			f.firstLeaf().textStyle = st
		}
	case ast.KindFunctDefinition:
		for _, c := range b.children() {
			if c.node.Kind() == ast.KindDeclarator {
				c.firstLeaf().textStyle = st
				break
			}
		}
	}
}

// link splices b into parent's chain so chain order follows child order in
// the parse tree.
func (b *Block) link(parent *Block) {
	idx := parent.node.IndexOfBranch(b.node)
	var before *Block
	for _, c := range parent.children() {
		if parent.node.IndexOfBranch(c.node) > idx {
			before = c
			break
		}
	}
	if before == nil {
		if last := parent.lastChild(); last != nil {
			last.nextSib = b.self
			b.prevSib = last.self
		} else {
			parent.firstChild = b.self
		}
		return
	}
	b.nextSib = before.self
	b.prevSib = before.prevSib
	if prev := before.prev(); prev != nil {
		prev.nextSib = b.self
	} else {
		parent.firstChild = b.self
	}
	before.prevSib = b.self
}

func (b *Block) parentBlock() *Block { return b.s.get(b.parent) }
func (b *Block) next() *Block        { return b.s.get(b.nextSib) }
func (b *Block) prev() *Block        { return b.s.get(b.prevSib) }
func (b *Block) first() *Block       { return b.s.get(b.firstChild) }

func (b *Block) children() []*Block {
	var out []*Block
	for c := b.first(); c != nil; c = c.next() {
		out = append(out, c)
	}
	return out
}

func (b *Block) lastChild() *Block {
	c := b.first()
	if c == nil {
		return nil
	}
	for n := c.next(); n != nil; n = n.next() {
		c = n
	}
	return c
}

// walk visits b and its descendants in pre-order, skipping the children of
// blocks for which fn returns false.
func (b *Block) walk(fn func(*Block) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.children() {
		c.walk(fn)
	}
}

// removeLinks unlinks b from its sibling chain. Leading spacing of a new
// first sibling is dropped, and a line break carried by a new last sibling
// moves up to the parent.
func (b *Block) removeLinks() {
	next, prev, parent := b.next(), b.prev(), b.parentBlock()
	if next != nil {
		next.prevSib = b.prevSib
		if prev == nil && next.node.Spaces() > 0 {
			next.node.SetSpaces(0)
		}
	}
	if prev != nil {
		prev.nextSib = b.nextSib
		if next == nil && prev.node.IsLineBreaking() {
			prev.node.SetLineBreaking(false)
			if parent != nil {
				parent.node.SetLineBreaking(true)
			}
		}
	}
	if parent != nil && parent.firstChild == b.self {
		parent.firstChild = b.nextSib
	}
	b.prevSib, b.nextSib = arena.Nil, arena.Nil
}

// setParentItem moves b, with the parse-tree branch holding its node, under
// np. A nil np detaches it.
func (b *Block) setParentItem(np *Block) {
	if np == b {
		np = nil
	}
	var branch ast.Node
	if op := b.parentBlock(); op != nil {
		branch = op.node.Child(op.node.IndexOfBranch(b.node))
		if branch == nil {
			branch = b.node
		}
		op.node.RemoveChild(branch)
		b.node.SetSpaces(0)
		b.removeLinks()
	} else {
		branch = b.node.Root()
	}

	if np != nil {
		last := np.lastChild()
		np.node.AppendChild(branch)
		if !b.node.IsFloating() {
			if last != nil {
				last.nextSib = b.self
				b.prevSib = last.self
			} else {
				np.firstChild = b.self
				b.prevSib = arena.Nil
			}
			b.nextSib = arena.Nil
		}
		np.text = nil
	}
	b.parent = handleOf(np)
}

// stackBefore moves b in front of its sibling sib, in the parse tree and in
// the chain.
func (b *Block) stackBefore(sib *Block) {
	if sib == nil || sib == b || sib.self == b.nextSib || sib.parent != b.parent {
		return
	}
	p := b.parentBlock()
	if p == nil {
		return
	}
	branch := p.node.Child(p.node.IndexOfBranch(b.node))
	if branch == nil {
		return
	}
	p.node.RemoveChild(branch)
	p.node.InsertChild(p.node.IndexOfBranch(sib.node), branch)

	b.removeLinks()
	if b.node.IsFloating() {
		return
	}
	b.prevSib = sib.prevSib
	if prev := b.prev(); prev != nil {
		prev.nextSib = b.self
	} else {
		p.firstChild = b.self
	}
	b.nextSib = sib.self
	sib.prevSib = b.self
}

// removeBlock detaches b and every ancestor left without children. The
// detached ancestors are returned for retirement together with the first
// surviving ancestor, which is marked edited and inherits the selection if
// any detached block held it. The spacing of all detached blocks is kept on
// b so it can be reinserted without losing it.
func (b *Block) removeBlock() (toDelete []*Block, survivor *Block) {
	s := b.s
	spaces := 0
	reselect := false
	cur := b
	for {
		spaces += cur.node.Spaces()
		reselect = reselect || s.selected == cur.self
		op := cur.parentBlock()
		cur.setParentItem(nil)
		if cur != b {
			toDelete = append(toDelete, cur)
		}
		cur = op
		if cur == nil || !cur.node.IsLeaf() {
			break
		}
	}
	if cur != nil {
		cur.edited = true
		if reselect {
			cur.setSelected(true)
		}
	}
	b.node.SetSpaces(spaces)
	return toDelete, cur
}

func (b *Block) firstLeaf() *Block {
	c := b
	for !c.IsTextBlock() {
		if c = c.first(); c == nil {
			panic("block: container without children")
		}
	}
	return c
}

func (b *Block) lastLeaf() *Block {
	c := b
	for !c.IsTextBlock() {
		if c = c.lastChild(); c == nil {
			panic("block: container without children")
		}
	}
	return c
}

// ancestorWhereFirst climbs while b is the first of its siblings. The
// spacing of the returned block is the spacing shown before b.
func (b *Block) ancestorWhereFirst() *Block {
	c := b
	for c.prevSib.IsNil() {
		p := c.parentBlock()
		if p == nil {
			break
		}
		c = p
	}
	return c
}

func (b *Block) ancestorWhereLast() *Block {
	c := b
	for c.nextSib.IsNil() {
		p := c.parentBlock()
		if p == nil {
			break
		}
		c = p
	}
	return c
}

// getNext returns the next block in document order, climbing out of
// finished parents. A root returns itself, so walking past the end of the
// document wraps to its first leaf when textOnly is set.
func (b *Block) getNext(textOnly bool) *Block {
	next := b
	if p := b.parentBlock(); p != nil {
		n := b.next()
		if n == nil {
			return p.getNext(textOnly)
		}
		next = n
	}
	if textOnly {
		return next.firstLeaf()
	}
	return next
}

func (b *Block) getPrev(textOnly bool) *Block {
	prev := b
	if p := b.parentBlock(); p != nil {
		n := b.prev()
		if n == nil {
			return p.getPrev(textOnly)
		}
		prev = n
	}
	if textOnly {
		return prev.lastLeaf()
	}
	return prev
}

// firstSelectableAncestor returns the nearest selectable strict ancestor,
// or the topmost ancestor when none is selectable.
func (b *Block) firstSelectableAncestor() *Block {
	c := b
	if p := c.parentBlock(); p != nil {
		c = p
	}
	for !c.node.IsSelectable() {
		p := c.parentBlock()
		if p == nil {
			break
		}
		c = p
	}
	return c
}

// mainBlock returns the block of the topmost node of b's parse tree that
// has one.
func (b *Block) mainBlock() *Block {
	n := b.node.Root()
	for {
		if m := b.s.get(n.Block()); m != nil {
			return m
		}
		if n.IsLeaf() {
			return b
		}
		n = n.Child(0)
	}
}
