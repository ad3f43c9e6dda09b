package ast

import (
	"slices"
	"strings"

	"github.com/matzehuels/blocktree/pkg/arena"
)

// Element is the in-memory [Node] implementation.
//
// The zero value is an empty unimportant leaf. Use [NewLeaf] or
// [NewContainer] to get the usual defaults.
type Element struct {
	typ      string
	kind     Kind
	parent   *Element
	children []*Element

	spaces       int
	lineBreaking bool
	floating     bool
	important    bool
	selectable   bool
	unknown      bool
	paired       bool

	block arena.Handle
}

// Option configures an Element at construction.
type Option func(*Element)

// LineBreaking marks the element as ending its row.
func LineBreaking() Option { return func(e *Element) { e.lineBreaking = true } }

// Spaced sets the leading spacing count.
func Spaced(n int) Option { return func(e *Element) { e.spaces = n } }

// Unimportant marks the element as a structural wrapper that gets no block.
func Unimportant() Option { return func(e *Element) { e.important = false } }

// Selectable overrides the selectable flag.
func Selectable(v bool) Option { return func(e *Element) { e.selectable = v } }

// Floating marks the element as positioned explicitly rather than by layout.
func Floating() Option { return func(e *Element) { e.floating = true } }

// Paired marks the element as one half of a bracket pair.
func Paired() Option { return func(e *Element) { e.paired = true } }

// OfKind overrides the element kind.
func OfKind(k Kind) Option { return func(e *Element) { e.kind = k } }

// NewLeaf creates an important, non-selectable text leaf.
func NewLeaf(text string, opts ...Option) *Element {
	e := &Element{typ: text, kind: KindText, important: true}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewContainer creates an important, selectable container owning children.
func NewContainer(typ string, kind Kind, children ...*Element) *Element {
	e := &Element{typ: typ, kind: kind, important: true, selectable: true}
	for _, c := range children {
		e.AppendChild(c)
	}
	return e
}

// With applies options to an existing element and returns it.
func (e *Element) With(opts ...Option) *Element {
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Element) IsLeaf() bool       { return len(e.children) == 0 }
func (e *Element) IsImportant() bool  { return e.important }
func (e *Element) IsSelectable() bool { return e.selectable }
func (e *Element) IsFloating() bool   { return e.floating }
func (e *Element) SetFloating(v bool) { e.floating = v }
func (e *Element) IsUnknown() bool    { return e.unknown || e.kind == KindUnknown }
func (e *Element) IsPaired() bool     { return e.paired }

func (e *Element) IsLineBreaking() bool { return e.lineBreaking }

func (e *Element) SetLineBreaking(v bool) bool {
	prev := e.lineBreaking
	e.lineBreaking = v
	return prev
}

func (e *Element) Spaces() int { return e.spaces }

// SetSpaces sets the spacing count; negative values clamp to zero.
func (e *Element) SetSpaces(n int) { e.spaces = max(n, 0) }

func (e *Element) AddSpaces(delta int) { e.SetSpaces(e.spaces + delta) }

func (e *Element) Type() string            { return e.typ }
func (e *Element) SetType(text string)     { e.typ = text }
func (e *Element) Kind() Kind              { return e.kind }
func (e *Element) Block() arena.Handle     { return e.block }
func (e *Element) SetBlock(h arena.Handle) { e.block = h }

func (e *Element) Text() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *Element) writeText(b *strings.Builder) {
	b.WriteString(strings.Repeat(" ", e.spaces))
	if e.IsLeaf() {
		b.WriteString(e.typ)
	}
	for _, c := range e.children {
		c.writeText(b)
	}
	if e.lineBreaking {
		b.WriteByte('\n')
	}
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Root() Node {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Child returns the i-th child or nil when out of range.
func (e *Element) Child(i int) Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

func (e *Element) ChildCount() int { return len(e.children) }

func (e *Element) IndexOfBranch(n Node) int {
	el, ok := n.(*Element)
	if !ok || el == nil {
		return -1
	}
	for cur := el; cur != nil; cur = cur.parent {
		if cur.parent == e {
			return slices.Index(e.children, cur)
		}
	}
	return -1
}

// AppendChild detaches n from its current parent and appends it.
func (e *Element) AppendChild(n Node) {
	e.InsertChild(len(e.children), n)
}

// InsertChild detaches n from its current parent and inserts it at index i,
// clamped to the valid range.
func (e *Element) InsertChild(i int, n Node) {
	el, ok := n.(*Element)
	if !ok || el == nil || el == e {
		return
	}
	if el.parent != nil {
		el.parent.RemoveChild(el)
	}
	i = min(max(i, 0), len(e.children))
	e.children = slices.Insert(e.children, i, el)
	el.parent = e
}

func (e *Element) RemoveChild(n Node) {
	el, ok := n.(*Element)
	if !ok || el == nil || el.parent != e {
		return
	}
	e.children = slices.DeleteFunc(e.children, func(c *Element) bool { return c == el })
	el.parent = nil
}

func (e *Element) HasAncestor(anc Node) bool {
	a, ok := anc.(*Element)
	if !ok || a == nil {
		return false
	}
	for cur := e.parent; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}

var _ Node = (*Element)(nil)
