package block

import (
	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/ast"
	"github.com/matzehuels/blocktree/pkg/geom"
	"github.com/matzehuels/blocktree/pkg/style"
)

// Block is the layout record wrapping one important parse-tree node.
//
// Positions are relative to the parent block; a root's position is in scene
// coordinates. Rect is expressed in the block's own coordinates and may
// start left of or above the origin.
//
// Blocks are owned by their [Session]. Read them through
// [Session.Block]; every mutation goes through the session.
type Block struct {
	s    *Session
	self arena.Handle
	node ast.Node

	parent     arena.Handle
	firstChild arena.Handle
	nextSib    arena.Handle
	prevSib    arena.Handle

	text *TextItem

	line int
	pos  geom.Point
	rect geom.Rect

	folded       bool
	edited       bool
	showing      bool
	hovered      bool
	pointed      bool
	ignoreUpdate bool

	moveStarted bool
	dragging    bool
	elevated    bool

	toAnimate    bool
	lastGeometry geom.Rect

	futureParent  arena.Handle
	futureSibling arena.Handle

	control   *FoldControl
	textStyle style.Style
	format    style.Format
}

// FoldControl is the fold affordance attached to multi-line selectable
// blocks.
type FoldControl struct {
	// Pos is the top-left corner of the control in block coordinates.
	Pos geom.Point
	// Visible is false while a drag is in progress.
	Visible bool
}

func (b *Block) Handle() arena.Handle      { return b.self }
func (b *Block) Node() ast.Node            { return b.node }
func (b *Block) Kind() ast.Kind            { return b.node.Kind() }
func (b *Block) Parent() arena.Handle      { return b.parent }
func (b *Block) FirstChild() arena.Handle  { return b.firstChild }
func (b *Block) NextSibling() arena.Handle { return b.nextSib }
func (b *Block) PrevSibling() arena.Handle { return b.prevSib }
func (b *Block) Line() int                 { return b.line }
func (b *Block) Pos() geom.Point           { return b.pos }
func (b *Block) Rect() geom.Rect           { return b.rect }
func (b *Block) Folded() bool              { return b.folded }
func (b *Block) Edited() bool              { return b.edited }
func (b *Block) Showing() bool             { return b.showing }
func (b *Block) Hovered() bool             { return b.hovered }
func (b *Block) Pointed() bool             { return b.pointed }
func (b *Block) Hidden() bool              { return b.ignoreUpdate }
func (b *Block) Dragging() bool            { return b.moveStarted }
func (b *Block) Elevated() bool            { return b.elevated }
func (b *Block) TextStyle() style.Style    { return b.textStyle }
func (b *Block) Format() style.Format      { return b.format }

// Children returns the child handles in chain order.
func (b *Block) Children() []arena.Handle {
	var out []arena.Handle
	for _, c := range b.children() {
		out = append(out, c.self)
	}
	return out
}

// IsTextBlock reports whether the block shows text: a leaf, or a folded
// container displaying its summary.
func (b *Block) IsTextBlock() bool { return b.text != nil }

// Text returns the displayed text, or "" for containers.
func (b *Block) Text() string {
	if b.text == nil {
		return ""
	}
	return b.text.Text()
}

// Length returns the number of characters of a text block.
func (b *Block) Length() int {
	if b.text == nil {
		return 0
	}
	return b.text.Len()
}

// Geometry returns the bounding rect in parent coordinates.
func (b *Block) Geometry() geom.Rect { return b.rect.Translate(b.pos) }

// ScenePos returns the position in scene coordinates.
func (b *Block) ScenePos() geom.Point {
	p := b.pos
	for a := b.parentBlock(); a != nil; a = a.parentBlock() {
		p = p.Add(a.pos)
	}
	return p
}

// SceneRect returns the bounding rect in scene coordinates.
func (b *Block) SceneRect() geom.Rect { return b.rect.Translate(b.ScenePos()) }

// Offset returns the current margin: larger while the frame is shown.
func (b *Block) Offset() geom.Point {
	if b.showing {
		return b.s.cfg.Offset
	}
	return b.s.cfg.NoOffset
}

// Control returns the fold control, if the block has one.
func (b *Block) Control() (FoldControl, bool) {
	if b.control == nil {
		return FoldControl{}, false
	}
	return *b.control, true
}

// NumberOfLines returns how many rows the block spans.
func (b *Block) NumberOfLines() int { return b.numberOfLines() }

// HasMoreLines reports whether the block spans more than one row.
func (b *Block) HasMoreLines() bool { return b.hasMoreLines() }

// AbsoluteSpaces returns the spacing of the node plus that of every
// ancestor block's node.
func (b *Block) AbsoluteSpaces() int {
	n := b.node.Spaces()
	if p := b.parentBlock(); p != nil {
		n += p.AbsoluteSpaces()
	}
	return n
}

// LeadingSpaces returns the spacing shown before the block: that of the
// outermost block it starts.
func (b *Block) LeadingSpaces() int { return b.ancestorWhereFirst().node.Spaces() }
