package render

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/blocktree/pkg/block"
)

// Snapshot is the layout of a session at one point in time.
type Snapshot struct {
	Session  string      `json:"session,omitempty"`
	Root     string      `json:"root"`
	Text     string      `json:"text"`
	LastLine int         `json:"last_line"`
	Lines    []string    `json:"lines"`
	Selected string      `json:"selected,omitempty"`
	Caret    *Caret      `json:"caret,omitempty"`
	Blocks   []BlockInfo `json:"blocks"`
}

// Caret is the caret position of a snapshot.
type Caret struct {
	Block string `json:"block"`
	Pos   int    `json:"pos"`
}

// BlockInfo is one block of a snapshot. Coordinates are scene coordinates.
type BlockInfo struct {
	Handle   string  `json:"handle"`
	Parent   string  `json:"parent,omitempty"`
	Kind     string  `json:"kind"`
	Text     string  `json:"text,omitempty"`
	Line     int     `json:"line"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color,omitempty"`
	Showing  bool    `json:"showing,omitempty"`
	Folded   bool    `json:"folded,omitempty"`
	Hidden   bool    `json:"hidden,omitempty"`
	Edited   bool    `json:"edited,omitempty"`
	Dragging bool    `json:"dragging,omitempty"`
	Control  bool    `json:"control,omitempty"`
}

// Take captures the layout of s.
func Take(s *block.Session) Snapshot {
	sn := Snapshot{
		Session:  s.ID().String(),
		Root:     s.Root().String(),
		Text:     s.Text(),
		LastLine: s.LastLine(),
		Blocks:   []BlockInfo{},
	}
	for l := 0; l <= s.LastLine(); l++ {
		h, _ := s.LineStart(l)
		sn.Lines = append(sn.Lines, h.String())
	}
	if sel := s.Selected(); !sel.IsNil() {
		sn.Selected = sel.String()
	}
	if h, pos := s.Cursor(); !h.IsNil() {
		sn.Caret = &Caret{Block: h.String(), Pos: pos}
	}
	for _, h := range s.Blocks() {
		b, err := s.Block(h)
		if err != nil {
			continue
		}
		sn.Blocks = append(sn.Blocks, Info(b))
	}
	return sn
}

// Info describes a single block.
func Info(b *block.Block) BlockInfo {
	r := b.SceneRect()
	_, control := b.Control()
	info := BlockInfo{
		Handle:   b.Handle().String(),
		Kind:     b.Kind().String(),
		Text:     b.Text(),
		Line:     b.Line(),
		X:        r.X,
		Y:        r.Y,
		Width:    r.W,
		Height:   r.H,
		Color:    string(b.TextStyle().Foreground),
		Showing:  b.Showing(),
		Folded:   b.Folded(),
		Hidden:   b.Hidden(),
		Edited:   b.Edited(),
		Dragging: b.Dragging(),
		Control:  control,
	}
	if p := b.Parent(); !p.IsNil() {
		info.Parent = p.String()
	}
	return info
}

// Marshal encodes the snapshot as indented JSON.
func (sn Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(sn, "", "  ")
}

// Write encodes the snapshot to w.
func (sn Snapshot) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sn)
}

// WriteFile writes the snapshot to path.
func (sn Snapshot) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sn.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSnapshot decodes a snapshot written by [Snapshot.Write].
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var sn Snapshot
	err := json.NewDecoder(r).Decode(&sn)
	return sn, err
}
