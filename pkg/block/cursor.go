package block

// Key is an editing key delivered to the text block holding the caret.
type Key int

const (
	KeyLeft Key = iota + 1
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyBackspace
	KeyDelete
	KeyEnter
)

var keyNames = map[Key]string{
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyEnter:     "enter",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKey maps a key name back to its Key.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// HandleKey applies k at the caret. Keys acting inside the text are handled
// there; at the edge of the text they move into, erase or split across
// neighbouring blocks.
func (s *Session) HandleKey(k Key) error {
	b, err := s.focused()
	if err != nil {
		return err
	}
	if k != KeyUp && k != KeyDown {
		s.lastX = -1
	}
	n := b.text.Len()
	switch k {
	case KeyLeft:
		if s.cursor > 0 {
			s.cursor--
		} else {
			b.moveCursorLR(true)
		}
	case KeyRight:
		if s.cursor < n {
			s.cursor++
		} else {
			b.moveCursorLR(false)
		}
	case KeyUp, KeyDown:
		b.moveCursorUD(k == KeyUp, s.cursor)
	case KeyHome:
		s.cursor = 0
	case KeyEnd:
		s.cursor = n
	case KeyBackspace:
		switch {
		case b.folded:
		case s.cursor > 0:
			b.text.RemoveCharAt(s.cursor - 1)
			s.cursor--
			b.textChanged()
		default:
			b.eraseChar(true)
		}
	case KeyDelete:
		switch {
		case b.folded:
		case s.cursor < n:
			b.text.RemoveCharAt(s.cursor)
			b.textChanged()
		default:
			b.eraseChar(false)
		}
	case KeyEnter:
		if !b.folded {
			b.splitLine(s.cursor)
		}
	}
	s.finish()
	return nil
}

// MoveCursor moves the caret across block boundaries regardless of its
// position inside the text: left/right to the neighbouring text block,
// up/down to the previous or next row.
func (s *Session) MoveCursor(k Key) error {
	b, err := s.focused()
	if err != nil {
		return err
	}
	switch k {
	case KeyLeft, KeyRight:
		b.moveCursorLR(k == KeyLeft)
	case KeyUp, KeyDown:
		b.moveCursorUD(k == KeyUp, s.cursor)
	default:
		s.logger.Debug("ignored cursor move", "key", k)
	}
	s.finish()
	return nil
}

// moveCursorLR moves the caret to the previous or next text block. On the
// same row with no spacing between the blocks, one character is skipped
// since both edges share a column.
func (b *Block) moveCursorLR(left bool) {
	s := b.s
	var (
		t   *Block
		pos int
	)
	if left {
		t = b.getPrev(true)
		pos = -2
		if t.line != b.line || b.ancestorWhereFirst().node.Spaces() > 0 {
			pos = -1
		}
	} else {
		t = b.getNext(true)
		pos = 1
		if t.line != b.line || t.ancestorWhereFirst().node.Spaces() > 0 {
			pos = 0
		}
	}
	s.setCursor(t, pos)
	s.lastX = -1
	t.setSelected(true)
}

// moveCursorUD moves the caret to the row above or below, keeping the
// remembered column. The column counts characters and spacing from the
// start of the row. Rows wrap around at both ends of the document.
func (b *Block) moveCursorUD(up bool, from int) {
	s := b.s
	start := s.get(s.lineStarts[b.line])
	if start == nil {
		s.logger.Debug("no line start", "line", b.line)
		return
	}
	lb := start.firstLeaf()
	x := from + lb.AbsoluteSpaces() - lb.ancestorWhereFirst().node.Spaces() + b.ancestorWhereFirst().node.Spaces()
	if s.lastX < 0 {
		first := lb
		for lb != b {
			x += lb.Length() + lb.ancestorWhereFirst().node.Spaces()
			n := lb.getNext(true)
			if n == first || n.line != b.line {
				break
			}
			lb = n
		}
		s.lastX = x
	} else {
		x = s.lastX
	}

	y := b.line + 1
	switch {
	case up && b.line == 0:
		y = s.lastLine
	case up:
		y = b.line - 1
	case b.line >= s.lastLine:
		y = 0
	}
	target := s.get(s.lineStarts[y])
	if target == nil {
		return
	}
	first := target.firstLeaf()
	t := first
	whites := t.AbsoluteSpaces()
	for {
		le := t.Length() + whites
		if le >= x {
			s.setCursor(t, max(x-whites, 0))
			break
		}
		x -= le
		n := t.getNext(true)
		if n == first || n.line != y {
			s.setCursor(t, -1)
			break
		}
		t = n
		whites = t.ancestorWhereFirst().node.Spaces()
	}
	t.setSelected(true)
}
