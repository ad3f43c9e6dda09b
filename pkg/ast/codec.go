package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidDocument is returned by [Decode] when the document violates the
// tree rules (for example an unimportant leaf, which could never get a block).
var ErrInvalidDocument = errors.New("invalid document")

// Doc is the JSON wire form of an [Element] tree.
//
//	{
//	  "type": "program", "kind": "program",
//	  "children": [
//	    {"text": "x", "kind": "identifier", "line_break": true},
//	    {"text": "y", "spaces": 1}
//	  ]
//	}
//
// A node with children is a container and uses Type; a node without children
// is a leaf and uses Text. Important defaults to true and Selectable defaults
// to true for containers and false for leaves.
type Doc struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Spaces     int    `json:"spaces,omitempty"`
	LineBreak  bool   `json:"line_break,omitempty"`
	Floating   bool   `json:"floating,omitempty"`
	Important  *bool  `json:"important,omitempty"`
	Selectable *bool  `json:"selectable,omitempty"`
	Paired     bool   `json:"paired,omitempty"`
	Children   []Doc  `json:"children,omitempty"`
}

// Decode reads a JSON document and returns its root element.
func Decode(r io.Reader) (*Element, error) {
	var d Doc
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromDoc(d)
}

// ReadFile decodes the JSON document stored at path.
func ReadFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the tree rooted at e as indented JSON.
func Encode(e *Element, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDoc(e)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// FromDoc converts the wire form into an element tree.
func FromDoc(d Doc) (*Element, error) {
	return fromDoc(d, "$")
}

func fromDoc(d Doc, path string) (*Element, error) {
	kind := KindText
	if d.Kind != "" {
		k, ok := ParseKind(d.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidDocument, path, d.Kind)
		}
		kind = k
	} else if len(d.Children) > 0 {
		kind = KindStatement
	}

	var e *Element
	if len(d.Children) == 0 {
		e = NewLeaf(d.Text, OfKind(kind))
	} else {
		e = NewContainer(d.Type, kind)
		for i, c := range d.Children {
			child, err := fromDoc(c, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			e.AppendChild(child)
		}
	}

	e.spaces = max(d.Spaces, 0)
	e.lineBreaking = d.LineBreak
	e.floating = d.Floating
	e.paired = d.Paired
	if d.Important != nil {
		e.important = *d.Important
	}
	if d.Selectable != nil {
		e.selectable = *d.Selectable
	}
	if !e.important && e.IsLeaf() {
		return nil, fmt.Errorf("%w: %s: leaf must be important", ErrInvalidDocument, path)
	}
	return e, nil
}

// ToDoc converts an element tree into its wire form.
func ToDoc(e *Element) Doc {
	d := Doc{
		Kind:      e.kind.String(),
		Spaces:    e.spaces,
		LineBreak: e.lineBreaking,
		Floating:  e.floating,
		Paired:    e.paired,
	}
	if e.IsLeaf() {
		d.Text = e.typ
	} else {
		d.Type = e.typ
	}
	if !e.important {
		d.Important = new(bool)
	}
	if e.selectable == e.IsLeaf() {
		v := e.selectable
		d.Selectable = &v
	}
	for _, c := range e.children {
		d.Children = append(d.Children, ToDoc(c))
	}
	return d
}
