// Package block implements the block layout and editing engine of a
// structured code editor.
//
// Every "important" node of a parse tree is wrapped in a [Block]: a
// rectangular region positioned relative to its parent block. Leaves carry
// editable text, containers enclose their children. Layout is never patched
// in place; after any structural or textual change the affected tree is
// recomputed top-down from its main block in a single synchronous pass.
//
// # Ownership
//
// A [Session] owns every block in an arena. Blocks refer to each other
// through generation-checked [arena.Handle] values, and a block removed by an
// edit is only freed when the current operation returns, so handles taken
// during an operation never dangle mid-operation.
//
// # Operations
//
// The Session exposes the editing surface:
//
//   - tree maintenance: [Session.AttachRoot], [Session.Attach],
//     [Session.SetParent], [Session.StackBefore], [Session.Remove]
//   - text mutation: [Session.SetText], [Session.InsertText],
//     [Session.SplitLine], [Session.EraseChar], [Session.HandleKey]
//   - caret navigation: [Session.SetCursor], [Session.MoveCursor]
//   - pointer interaction: [Session.PointerDown], [Session.PointerMove],
//     [Session.PointerUp], [Session.HoverEnter], [Session.HoverLeave]
//   - visibility: [Session.SetSelected], [Session.SetShowing],
//     [Session.SetFolded]
//
// # Usage
//
//	s := block.New(block.WithLogger(logger))
//	root := s.AttachRoot(ast.Parse("int x;\nint y;\n"))
//	leaf, _ := s.LineStart(1)
//	_ = s.SetCursor(leaf, 0)
//	_ = s.HandleKey(block.KeyBackspace) // joins the two rows
//
// The engine is single-threaded. Callers sharing a Session between
// goroutines must serialize access themselves.
package block
