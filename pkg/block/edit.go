package block

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/blocktree/pkg/arena"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/observability"
)

// textChanged reconciles the parse tree and layout after the text item of
// b was edited.
//
// An emptied block is removed unless it is the only content of its row,
// and the caret moves to where the text that followed it now starts.
// Leading spaces typed into the text become spacing of the block.
func (b *Block) textChanged() {
	s := b.s
	text := b.text.Text()
	s.lastX = -1

	if text == "" && b.getNext(true) != b && (!(b.node.IsLineBreaking() && b.aloneOnRow()) || b.node.IsFloating()) {
		next := b.getNext(false)
		if p := b.getPrev(false); b.node.IsLineBreaking() && p != b && !p.parent.IsNil() {
			// the row still ends here
			p.node.SetLineBreaking(true)
		}
		toDelete, _ := b.removeBlock()
		s.retire(b)
		s.retire(toDelete...)
		observability.Edit().OnTextChanged(s.ctx, b.self.String(), true)
		if next == b || s.isPending(next) {
			return
		}
		switch {
		case next.parent.IsNil() || next.line < b.line:
			// b ended the document
			s.setCursor(next.getPrev(true), -1)
		case next.line > b.line:
			if p := next.getPrev(true); p.line > b.line {
				s.setCursor(next.firstLeaf(), 0)
			} else {
				s.setCursor(p, -1)
			}
		default:
			next.node.AddSpaces(b.node.Spaces())
			s.setCursor(next.firstLeaf(), 0)
		}
		next.updateAll(true)
		return
	}

	if trimmed := strings.TrimLeft(text, " "); trimmed != text {
		n := len(text) - len(trimmed)
		awf := b.ancestorWhereFirst()
		awf.node.AddSpaces(n)
		b.text.SetText(trimmed)
		b.node.SetType(trimmed)
		b.edited = true
		if s.focus == b.self {
			s.cursor = max(s.cursor-n, 0)
		}
		observability.Edit().OnTextChanged(s.ctx, b.self.String(), false)
		awf.updateAll(false)
		return
	}

	if b.node.Type() != text {
		b.edited = true
		b.node.SetType(text)
		observability.Edit().OnTextChanged(s.ctx, b.self.String(), false)
		b.updateAll(false)
	}
}

// aloneOnRow reports whether no block precedes b on its row. At the start
// of the document the previous block is the root itself.
func (b *Block) aloneOnRow() bool {
	prev := b.getPrev(false)
	return prev == b || prev.parent.IsNil() || prev.line != b.line
}

// splitLine breaks the row at caret position pos of b. Position -1, like
// any position outside the text, splits after the whole block.
func (b *Block) splitLine(pos int) {
	s := b.s
	if b.parent.IsNil() {
		return
	}
	if pos < -1 || pos > b.Length() {
		pos = -1
	}
	if pos == 0 {
		if p := b.getPrev(false); !p.parent.IsNil() {
			p.splitLine(-1)
		}
		return
	}
	if (pos == b.Length() || pos == -1) && b.nextSib.IsNil() {
		if a := b.ancestorWhereLast(); !a.parent.IsNil() {
			a.splitLine(-1)
		} else {
			b.appendRow(a)
		}
		return
	}

	var rest string
	if pos > 0 && b.text != nil {
		rest = b.text.Split(pos)
		b.node.SetType(b.text.Text())
		b.edited = true
	}
	s.lastX = -1
	next := b.getNext(false)
	already := b.node.SetLineBreaking(true)
	if rest != "" || already {
		nb := s.newBlock(s.newLeaf(rest), b.parentBlock())
		nb.stackBefore(next)
		nb.node.SetLineBreaking(already)
		b.node.SetLineBreaking(false)
		nb.pos = nb.computePos()
		b.node.SetLineBreaking(true)
		s.setCursor(nb, 0)
	} else {
		next.node.SetSpaces(0)
		s.setCursor(next.firstLeaf(), 0)
	}
	observability.Edit().OnSplit(s.ctx, b.self.String())
	b.updateAll(true)
}

// appendRow opens an empty row after the last row of root, which ends
// with b.
func (b *Block) appendRow(root *Block) {
	s := b.s
	top := b
	for !top.parent.IsNil() && top.parent != root.self {
		top = top.parentBlock()
	}
	already := top.node.SetLineBreaking(true)
	nb := s.newBlock(s.newLeaf(""), root)
	nb.node.SetLineBreaking(already)
	s.lastX = -1
	s.setCursor(nb, 0)
	observability.Edit().OnSplit(s.ctx, b.self.String())
	nb.updateAll(true)
}

// eraseChar handles an erase at the edge of b's text: backward at its
// start, forward at its end. Spacing is consumed first, then the row break
// or the character of the neighbouring block on the same row.
func (b *Block) eraseChar(backward bool) {
	s := b.s
	s.lastX = -1
	observability.Edit().OnErase(s.ctx, b.self.String(), backward)

	if backward {
		awf := b.ancestorWhereFirst()
		if awf.node.Spaces() > 0 {
			awf.node.AddSpaces(-1)
			b.updateAll(false)
			return
		}
		if awf.parent.IsNil() {
			return
		}
		t := b.getPrev(true)
		switch {
		case t.line < b.line:
			b.joinRow(t)
		case t.line == b.line && !t.folded:
			t.text.RemoveCharAt(-1)
			s.setCursor(t, -1)
			t.textChanged()
		}
		return
	}

	if b.ancestorWhereLast().parent.IsNil() {
		return
	}
	if t := b.getNext(false); t.node.Spaces() > 0 {
		t.node.AddSpaces(-1)
		b.updateAll(false)
		return
	}
	t := b.getNext(true)
	switch {
	case t.line > b.line:
		b.joinRow(b)
	case t.line == b.line && !t.folded:
		t.text.RemoveCharAt(0)
		t.textChanged()
	}
}

// joinRow clears the row break carried by from or its nearest breaking
// ancestor. An empty row left behind is removed.
func (b *Block) joinRow(from *Block) {
	c := from
	for c != nil && !c.node.IsLineBreaking() {
		c = c.parentBlock()
	}
	if c == nil {
		return
	}
	c.node.SetLineBreaking(false)
	c.edited = true
	if c.IsTextBlock() && !c.folded && c.Text() == "" {
		c.textChanged()
		return
	}
	b.updateAll(true)
}

func (s *Session) setCursor(b *Block, pos int) {
	if b == nil || b.text == nil {
		return
	}
	s.focus = b.self
	s.cursor = b.text.Resolve(pos)
}

// focused returns the text block holding the caret.
func (s *Session) focused() (*Block, error) {
	b := s.get(s.focus)
	if b == nil || s.isPending(b) || b.text == nil {
		return nil, bterr.Wrap(bterr.ErrCodeConflict, ErrNoFocus, "caret operation")
	}
	return b, nil
}

func (s *Session) editable(h arena.Handle) (*Block, error) {
	b, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	if b.text == nil || b.folded {
		return nil, bterr.Wrap(bterr.ErrCodeConflict, ErrNotText, "block %s", h)
	}
	return b, nil
}

// Cursor returns the text block holding the caret and the caret position.
func (s *Session) Cursor() (arena.Handle, int) {
	if _, err := s.focused(); err != nil {
		return arena.Nil, 0
	}
	return s.focus, s.cursor
}

// SetCursor puts the caret into text block h. Negative positions count from
// the end.
func (s *Session) SetCursor(h arena.Handle, pos int) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	if b.text == nil {
		return bterr.Wrap(bterr.ErrCodeConflict, ErrNotText, "block %s", h)
	}
	s.setCursor(b, pos)
	s.finish()
	return nil
}

// SetText replaces the text of h as if the user had typed it.
func (s *Session) SetText(h arena.Handle, text string) error {
	b, err := s.editable(h)
	if err != nil {
		return err
	}
	b.text.SetText(text)
	if s.focus == b.self {
		s.cursor = min(s.cursor, b.text.Len())
	}
	b.textChanged()
	s.finish()
	return nil
}

// InsertText types text at the caret. Newlines split the row.
func (s *Session) InsertText(text string) error {
	b, err := s.focused()
	if err != nil {
		return err
	}
	if b.folded {
		return bterr.Wrap(bterr.ErrCodeConflict, ErrNotText, "block %s", b.self)
	}
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			b.splitLine(s.cursor)
			if b, err = s.focused(); err != nil {
				break
			}
		}
		if part == "" {
			continue
		}
		b.text.Insert(s.cursor, part)
		s.cursor += utf8.RuneCountInString(part)
		b.textChanged()
		if b, err = s.focused(); err != nil {
			break
		}
	}
	s.finish()
	return nil
}

// SplitLine breaks the row at position pos of text block h.
func (s *Session) SplitLine(h arena.Handle, pos int) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	if b.folded {
		return bterr.Wrap(bterr.ErrCodeConflict, ErrNotText, "block %s", h)
	}
	b.splitLine(pos)
	s.finish()
	return nil
}

// EraseChar erases at the start (backward) or end of text block h.
func (s *Session) EraseChar(h arena.Handle, backward bool) error {
	b, err := s.editable(h)
	if err != nil {
		return err
	}
	b.eraseChar(backward)
	s.finish()
	return nil
}
