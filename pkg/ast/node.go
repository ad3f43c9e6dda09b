// Package ast is the parse-tree adapter consumed by the block layout engine.
//
// The engine never looks at grammar details. It only needs the narrow view
// described by [Node]: leaf status, children and parent navigation, the
// "important" filter that decides which nodes get their own block, layout
// flags (line-breaking, floating, spacing) and the node's text.
//
// # Core Types
//
//   - [Node]: the interface the engine consumes
//   - [Element]: the in-memory implementation shipped with this module
//   - [Kind]: typed node categories used for style lookup
//
// # Building Trees
//
// Trees can be assembled by hand:
//
//	root := ast.NewContainer("program", ast.KindProgram,
//	    ast.NewLeaf("x", ast.LineBreaking()),
//	    ast.NewLeaf("y"),
//	)
//
// decoded from the JSON document format with [Decode] / [ReadFile], or built
// from plain source text with [Parse].
package ast

import "github.com/matzehuels/blocktree/pkg/arena"

// Node is the parse-tree view required by the layout engine.
//
// For leaves, Type is the editable text. For containers it is the grammar
// type name (for example "funct_call").
type Node interface {
	IsLeaf() bool
	IsImportant() bool
	IsSelectable() bool
	IsFloating() bool
	SetFloating(bool)
	IsLineBreaking() bool
	// SetLineBreaking sets the flag and returns its previous value.
	SetLineBreaking(bool) bool
	IsUnknown() bool
	IsPaired() bool

	Spaces() int
	SetSpaces(n int)
	AddSpaces(delta int)

	Type() string
	SetType(text string)
	Kind() Kind
	// Text renders the subtree as source text: spacing, leaf text and a
	// newline after every line-breaking node.
	Text() string

	Parent() Node
	Root() Node
	Children() []Node
	Child(i int) Node
	ChildCount() int
	// IndexOfBranch returns the index of the child that is n or an ancestor
	// of n, or -1 when n is not below this node.
	IndexOfBranch(n Node) int
	AppendChild(n Node)
	InsertChild(i int, n Node)
	RemoveChild(n Node)
	// HasAncestor reports whether anc is a strict ancestor of this node.
	HasAncestor(anc Node) bool

	// Block returns the handle of the block wrapping this node, if any.
	Block() arena.Handle
	SetBlock(h arena.Handle)
}
