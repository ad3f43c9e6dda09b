package ast

import "testing"

func TestElementText(t *testing.T) {
	root := NewContainer("program", KindProgram,
		NewContainer("statement", KindStatement,
			NewLeaf("int"),
			NewLeaf("x", Spaced(1)),
			NewLeaf(";", LineBreaking()),
		),
		NewLeaf("y", Spaced(2)),
	)
	if got, want := root.Text(), "int x;\n  y"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestInsertChildDetaches(t *testing.T) {
	a, b := NewLeaf("a"), NewLeaf("b")
	p1 := NewContainer("p1", KindStatement, a, b)
	p2 := NewContainer("p2", KindStatement, NewLeaf("c"))

	p2.InsertChild(0, a)
	if p1.ChildCount() != 1 || p1.Child(0) != Node(b) {
		t.Errorf("p1 children = %d, want [b]", p1.ChildCount())
	}
	if a.Parent() != Node(p2) || p2.Child(0) != Node(a) {
		t.Error("a not inserted at front of p2")
	}

	// out-of-range index clamps
	p2.InsertChild(99, b)
	if p2.Child(2) != Node(b) || !p1.IsLeaf() {
		t.Error("clamped insert failed")
	}
	if p1.Parent() != nil {
		t.Error("detached container should report a nil parent")
	}
}

func TestIndexOfBranch(t *testing.T) {
	deep := NewLeaf("deep")
	wrap := NewContainer("wrap", KindStatement, deep).With(Unimportant())
	root := NewContainer("root", KindProgram, NewLeaf("a"), wrap)

	tests := []struct {
		name string
		n    Node
		want int
	}{
		{"direct child", root.Child(0), 0},
		{"through wrapper", deep, 1},
		{"root itself", root, -1},
		{"foreign node", NewLeaf("z"), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := root.IndexOfBranch(tt.n); got != tt.want {
				t.Errorf("IndexOfBranch = %d, want %d", got, tt.want)
			}
		})
	}
	if !deep.HasAncestor(root) || !deep.HasAncestor(wrap) || deep.HasAncestor(deep) {
		t.Error("HasAncestor mismatch")
	}
	if deep.Root() != Node(root) {
		t.Error("Root() mismatch")
	}
}

func TestFlags(t *testing.T) {
	e := NewLeaf("a")
	if prev := e.SetLineBreaking(true); prev {
		t.Error("SetLineBreaking should return previous value false")
	}
	if prev := e.SetLineBreaking(true); !prev {
		t.Error("SetLineBreaking should return previous value true")
	}
	e.SetSpaces(2)
	e.AddSpaces(-5)
	if e.Spaces() != 0 {
		t.Errorf("Spaces = %d, want clamp to 0", e.Spaces())
	}
	if e.IsSelectable() || !e.IsImportant() {
		t.Error("leaf defaults: important, not selectable")
	}
	c := NewContainer("c", KindStatement, e)
	if !c.IsSelectable() || c.IsLeaf() {
		t.Error("container defaults: selectable, not leaf")
	}
	if NewLeaf("?", OfKind(KindUnknown)).IsUnknown() != true {
		t.Error("unknown kind should report IsUnknown")
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("nope"); ok {
		t.Error("ParseKind accepted an unknown name")
	}
	if !KindFunctCall.IsFunction() || KindStatement.IsFunction() {
		t.Error("IsFunction mismatch")
	}
}
