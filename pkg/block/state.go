package block

import (
	"strings"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/observability"
)

// setShowing sets the frame state of b and its selectable ancestors, up to
// but excluding stop. The walk ends at the first selectable block already
// in the requested state.
func (b *Block) setShowing(state bool, stop *Block) {
	for c := b; c != nil && c != stop; c = c.parentBlock() {
		if c.node.IsSelectable() {
			if c.showing == state {
				return
			}
			c.showing = state
		}
	}
}

// setSelected moves the selection to b, or clears it. Non-selectable
// blocks delegate to their parent. Only the frames that change are
// toggled: the old selection's chain is hidden up to the first ancestor of
// b that is already shown.
func (b *Block) setSelected(flag bool) {
	s := b.s
	if !b.node.IsSelectable() {
		if p := b.parentBlock(); p != nil {
			p.setSelected(flag)
		}
		return
	}
	var stop *Block
	if flag {
		stop = b
		for !stop.showing && !stop.parent.IsNil() {
			stop = stop.parentBlock()
		}
	}
	if old := s.get(s.selected); old != nil {
		s.selected = arena.Nil
		old.setShowing(false, stop)
	}
	if flag {
		s.selected = b.self
		b.setShowing(true, nil)
		observability.Edit().OnSelect(s.ctx, b.self.String())
	}
	b.updateAll(true)
}

// setFolded collapses b into a one-row summary or expands it again. The
// summary is the text of b's first row followed by " ...".
func (b *Block) setFolded(fold bool) {
	s := b.s
	if fold == b.folded || (fold && b.IsTextBlock()) {
		return
	}
	if fold {
		var sum strings.Builder
		t := b.firstLeaf()
		for t.line == b.line {
			sum.WriteString(t.node.Text())
			n := t.getNext(true)
			if n == t || !n.node.HasAncestor(b.node) {
				break
			}
			t = n
		}
		b.text = newTextItem(strings.ReplaceAll(sum.String(), "\n", "") + " ...")
	} else {
		b.text = nil
	}
	for _, c := range b.children() {
		c.ignoreUpdate = fold
	}
	b.folded = fold
	observability.Edit().OnFold(s.ctx, b.self.String(), fold)

	if f := s.get(s.focus); fold && f != nil && f.node.HasAncestor(b.node) {
		s.focus, s.cursor = arena.Nil, 0
	}
	if sel := s.get(s.selected); fold && sel != nil && sel.node.HasAncestor(b.node) {
		b.setSelected(true)
		return
	}
	b.updateAll(true)
}

// hoverEnter marks b as hovered and takes the pointed state from its
// selectable ancestor.
func (b *Block) hoverEnter() {
	if !b.node.IsSelectable() {
		return
	}
	b.hovered = true
	b.pointed = true
	if a := b.firstSelectableAncestor(); a != b {
		a.pointed = false
	}
}

// hoverLeave hands the pointed state back to a still hovered ancestor.
func (b *Block) hoverLeave() {
	if !b.node.IsSelectable() {
		return
	}
	b.hovered = false
	b.pointed = false
	if a := b.firstSelectableAncestor(); a != b && a.hovered {
		a.pointed = true
	}
}

// SetSelected selects h, or clears the selection when flag is false.
func (s *Session) SetSelected(h arena.Handle, flag bool) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	b.setSelected(flag)
	s.finish()
	return nil
}

// SetShowing toggles the frame of h and its selectable ancestors, then
// relays out.
func (s *Session) SetShowing(h arena.Handle, state bool) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	b.setShowing(state, nil)
	b.updateAll(true)
	s.finish()
	return nil
}

// SetFolded folds or unfolds container h.
func (s *Session) SetFolded(h arena.Handle, fold bool) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	b.setFolded(fold)
	s.finish()
	return nil
}

// HasFoldControl reports whether h currently carries a fold control.
func (s *Session) HasFoldControl(h arena.Handle) bool {
	b := s.get(h)
	return b != nil && b.control != nil
}

// HoverEnter reports that the pointer entered h.
func (s *Session) HoverEnter(h arena.Handle) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	b.hoverEnter()
	s.finish()
	return nil
}

// HoverLeave reports that the pointer left h.
func (s *Session) HoverLeave(h arena.Handle) error {
	b, err := s.lookup(h)
	if err != nil {
		return err
	}
	b.hoverLeave()
	s.finish()
	return nil
}
