package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/blocktree/pkg/pipeline"
	"github.com/matzehuels/blocktree/pkg/render"
)

func testEditor(t *testing.T, src string) editorModel {
	t.Helper()
	s, err := pipeline.NewRunner(nil, nil, nil).Session(context.Background(), pipeline.Options{
		Name:   "main.c",
		Source: []byte(src),
	})
	if err != nil {
		t.Fatal(err)
	}
	return newEditorModel(s, "main.c")
}

func press(t *testing.T, m editorModel, keys ...tea.KeyMsg) editorModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(editorModel)
		if m.err != nil {
			t.Fatalf("%s: %v", k, m.err)
		}
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestEditorTyping(t *testing.T) {
	tests := []struct {
		name  string
		keys  []tea.KeyMsg
		want  string
		dirty bool
	}{
		{"first key places the caret", []tea.KeyMsg{runes("a")}, "aint x;\nz;\n", true},
		{"motion", []tea.KeyMsg{{Type: tea.KeyEnd}, {Type: tea.KeyRight}}, "int x;\nz;\n", false},
		{"backspace", []tea.KeyMsg{{Type: tea.KeyEnd}, {Type: tea.KeyBackspace}}, "in x;\nz;\n", true},
		{"enter splits the row", []tea.KeyMsg{{Type: tea.KeyEnd}, {Type: tea.KeyEnter}}, "int\nx;\nz;\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, testEditor(t, "int x;\nz;\n"), tt.keys...)
			if got := m.s.Text(); got != tt.want {
				t.Errorf("Text = %q, want %q", got, tt.want)
			}
			if m.dirty != tt.dirty {
				t.Errorf("dirty = %v", m.dirty)
			}
		})
	}
}

func TestEditorSelectAndFold(t *testing.T) {
	m := testEditor(t, "if (x) {\n  y;\n}\nz;\n")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyHome}, tea.KeyMsg{Type: tea.KeyTab})
	sel, err := m.s.Block(m.s.Selected())
	if err != nil {
		t.Fatal("tab selected nothing")
	}
	if !m.s.HasFoldControl(sel.Handle()) {
		t.Fatalf("selected %s has no fold control", sel.Kind())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	if !sel.Folded() || m.s.LastLine() != 1 {
		t.Errorf("after ctrl+f: folded %v, last line %d", sel.Folded(), m.s.LastLine())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	if sel.Folded() || m.s.LastLine() != 3 {
		t.Errorf("after second ctrl+f: folded %v, last line %d", sel.Folded(), m.s.LastLine())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.s.Selected() != sel.Parent() {
		t.Errorf("shift+tab selected %s, want parent %s", m.s.Selected(), sel.Parent())
	}
	if m.dirty {
		t.Error("folding marked the document dirty")
	}
}

func TestEditorSave(t *testing.T) {
	m := testEditor(t, "a;\n")
	var saved string
	m.save = func(path string, data []byte) error {
		saved = path + ":" + string(data)
		return nil
	}
	m = press(t, m, runes("b"), tea.KeyMsg{Type: tea.KeyCtrlS})
	if saved != "main.c:ba;\n" || m.dirty {
		t.Errorf("saved %q, dirty %v", saved, m.dirty)
	}

	m.save = func(string, []byte) error { return errors.New("disk full") }
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if next.(editorModel).err == nil {
		t.Error("save error not reported")
	}
}

func TestEditorQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := testEditor(t, "a;\n").Update(k)
		if cmd == nil {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestEditorClick(t *testing.T) {
	m := testEditor(t, "int x;\nz;\n")
	gutter := gutterWidth(2)
	next, _ := m.Update(tea.MouseMsg{
		X:      gutter + 5,
		Y:      editHeader,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = next.(editorModel)
	h, pos := m.s.Cursor()
	b, err := m.s.Block(h)
	if err != nil {
		t.Fatal("click placed no caret")
	}
	if b.Text() != "x" || pos != 1 {
		t.Errorf("caret in %q at %d", b.Text(), pos)
	}

	next, _ = m.Update(tea.MouseMsg{X: gutter, Y: editHeader + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(editorModel)
	h, pos = m.s.Cursor()
	if b, _ := m.s.Block(h); b == nil || b.Text() != "z" || pos != 0 {
		t.Errorf("second click caret at %d", pos)
	}
}

func TestEditorView(t *testing.T) {
	m := press(t, testEditor(t, "a;\n"), runes("b"))
	v := m.View()
	for _, want := range []string{"main.c *", "ctrl+s save", "line 1, col 2"} {
		if !strings.Contains(v, want) {
			t.Errorf("view lacks %q:\n%s", want, v)
		}
	}
}

func TestEditorScroll(t *testing.T) {
	m := testEditor(t, strings.Repeat("a;\n", 40))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	m = next.(editorModel)
	rows := render.Rows(m.s)
	last := rows[len(rows)-1]
	if err := m.s.SetCursor(last[0].Handle(), 0); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.offset == 0 || last[0].Line() >= m.offset+m.height {
		t.Errorf("offset %d, height %d, caret line %d", m.offset, m.height, last[0].Line())
	}
}
