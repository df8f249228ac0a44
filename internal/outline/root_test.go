package outline

import (
	"errors"
	"testing"
)

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("panic = %v, want %v", r, want)
		}
	}()
	fn()
}

func TestNewRootRequiresSelection(t *testing.T) {
	expectPanic(t, ErrEmptySelections, func() {
		NewRoot(Pos(0, 0), Pos(0, 0), nil)
	})
}

func TestReplaceSelectionsEmpty(t *testing.T) {
	root := NewRoot(Pos(0, 0), Pos(0, 0), []Selection{NewCursorSelection(Pos(0, 0))})
	expectPanic(t, ErrEmptySelections, func() {
		root.ReplaceSelections([]Selection{})
	})
}

func TestNotesIndentPanics(t *testing.T) {
	root := NewRoot(Pos(0, 0), Pos(0, 0), []Selection{NewCursorSelection(Pos(0, 0))})
	l := root.NewList("", "-", "", " ", "a", false)

	expectPanic(t, ErrNotesIndentMissing, func() {
		l.AddLine("note")
	})

	l.SetNotesIndent("  ")
	l.AddLine("note")
	expectPanic(t, ErrNotesIndentAlreadySet, func() {
		l.SetNotesIndent("    ")
	})
}

func TestRootGeometry(t *testing.T) {
	root := mustParse(t, newTextReader("intro\n- |a\n  note\n  - [ ] b\n- c"))
	a := root.Children()[0]
	b := a.FirstChild()
	c := root.Children()[1]

	if root.ContentStart() != Pos(1, 0) || root.ContentEnd() != Pos(4, 3) {
		t.Errorf("ContentRange() = %v..%v", root.ContentStart(), root.ContentEnd())
	}
	if root.LineCount() != 4 {
		t.Errorf("LineCount() = %d, want 4", root.LineCount())
	}

	tests := []struct {
		name string
		got  Position
		want Position
	}{
		{"a content start", a.FirstLineContentStart(), Pos(1, 2)},
		{"a last line end", a.LastLineContentEnd(), Pos(2, 6)},
		{"a subtree end", a.ContentEndIncludingChildren(), Pos(3, 9)},
		{"b content start", b.FirstLineContentStart(), Pos(3, 4)},
		{"b after checkbox", b.FirstLineContentStartAfterCheckbox(), Pos(3, 8)},
		{"c content start", c.FirstLineContentStart(), Pos(4, 2)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if a.Level() != 1 || b.Level() != 2 {
		t.Errorf("Level() = %d, %d", a.Level(), b.Level())
	}

	infos := a.LinesInfo()
	if len(infos) != 2 {
		t.Fatalf("LinesInfo() len = %d", len(infos))
	}
	if infos[1].From != Pos(2, 2) || infos[1].To != Pos(2, 6) || infos[1].Text != "note" {
		t.Errorf("LinesInfo()[1] = %+v", infos[1])
	}
}

func TestBlankNoteKeepsItemIndent(t *testing.T) {
	root := mustParse(t, newTextReader("- a\n\t- b|\n\t\n\t  note"))
	b := root.Children()[0].FirstChild()

	infos := b.LinesInfo()
	if len(infos) != 3 {
		t.Fatalf("LinesInfo() len = %d", len(infos))
	}
	if infos[1].From != Pos(2, 1) || infos[2].From != Pos(3, 3) {
		t.Errorf("LinesInfo() = %+v", infos)
	}

	b.ReplaceLines([]string{"b", "", "note", "more"})
	if got, want := root.Print(), "- a\n\t- b\n\t\n\t  note\n\t  more"; got != want {
		t.Errorf("Print() after ReplaceLines = %q, want %q", got, want)
	}

	b.ReplaceLines([]string{"b", "joined"})
	if got, want := root.Print(), "- a\n\t- b\n\t  joined"; got != want {
		t.Errorf("Print() after rewriting the blank line = %q, want %q", got, want)
	}
}

func TestListUnderLine(t *testing.T) {
	root := mustParse(t, newTextReader("- |a\n  note\n  - b\n- c"))
	a := root.Children()[0]

	tests := []struct {
		line int
		want *List
	}{
		{0, a},
		{1, a},
		{2, a.FirstChild()},
		{3, root.Children()[1]},
		{4, nil},
		{-1, nil},
	}
	for _, tt := range tests {
		if got := root.ListUnderLine(tt.line); got != tt.want {
			t.Errorf("ListUnderLine(%d) returned the wrong node", tt.line)
		}
	}
	if root.ListUnderCursor() != a {
		t.Error("ListUnderCursor() should be a")
	}

	from, till, ok := root.ContentLinesRangeOf(a)
	if !ok || from != 0 || till != 1 {
		t.Errorf("ContentLinesRangeOf(a) = %d, %d, %v", from, till, ok)
	}
}

func TestCloneKeepsIDs(t *testing.T) {
	root := mustParse(t, newTextReader("- |a\n  - b\n- c"))
	clone := root.Clone()

	orig := root.Lists()
	copied := clone.Lists()
	if len(orig) != len(copied) {
		t.Fatalf("clone has %d nodes, want %d", len(copied), len(orig))
	}
	for i := range orig {
		if orig[i].ID() != copied[i].ID() {
			t.Errorf("node %d id = %d, want %d", i, copied[i].ID(), orig[i].ID())
		}
		if orig[i] == copied[i] {
			t.Errorf("node %d is shared between clone and original", i)
		}
		if copied[i].Root() != clone {
			t.Errorf("node %d belongs to the wrong root", i)
		}
	}

	b := clone.ListByID(orig[1].ID())
	b.ReplaceLines([]string{"changed"})
	clone.ReplaceCursor(Pos(2, 0))

	if root.Print() != "- a\n  - b\n- c" {
		t.Errorf("original changed: %q", root.Print())
	}
	if clone.Print() != "- a\n  - changed\n- c" {
		t.Errorf("clone Print() = %q", clone.Print())
	}
	if root.Cursor() != Pos(0, 2) {
		t.Errorf("original cursor changed: %v", root.Cursor())
	}

	fresh := clone.NewList("", "-", "", " ", "d", false)
	if root.ListByID(fresh.ID()) != nil {
		t.Error("new node in clone should not exist in original")
	}
}

func TestTreeEditing(t *testing.T) {
	root := mustParse(t, newTextReader("- |a\n- b\n- c"))
	a, b, c := root.Children()[0], root.Children()[1], root.Children()[2]
	top := root.RootList()

	top.RemoveChild(b)
	if b.Parent() != nil {
		t.Error("removed node should be detached")
	}
	a.AddAfterAll(b)
	b.IndentContent(0, "  ")
	if got := root.Print(); got != "- a\n  - b\n- c" {
		t.Errorf("Print() = %q", got)
	}
	if !a.Contains(b) || b.Contains(a) {
		t.Error("Contains() is wrong")
	}
	if top.NextSiblingOf(a) != c || top.PrevSiblingOf(c) != a || top.PrevSiblingOf(a) != nil {
		t.Error("sibling lookup is wrong")
	}

	a.RemoveChild(b)
	b.UnindentContent(0, 2)
	top.AddBefore(a, b)
	if got := root.Print(); got != "- b\n- a\n- c" {
		t.Errorf("Print() = %q", got)
	}

	top.RemoveChild(c)
	root.Release(c)
	if root.ListByID(c.ID()) != nil {
		t.Error("released node should leave the arena")
	}
	if root.RootList().SubtreeSize() != 3 {
		t.Errorf("SubtreeSize() = %d, want 3", root.RootList().SubtreeSize())
	}
}

func TestSelections(t *testing.T) {
	sels := []Selection{
		NewSelection(Pos(0, 0), Pos(0, 2)),
		NewCursorSelection(Pos(1, 1)),
	}
	root := NewRoot(Pos(0, 0), Pos(1, 3), sels)
	if root.HasSingleSelection() || root.HasSingleCursor() {
		t.Error("two selections reported as single")
	}
	if root.Cursor() != Pos(1, 1) {
		t.Errorf("Cursor() = %v, want last selection head", root.Cursor())
	}

	sels[0] = NewCursorSelection(Pos(5, 5))
	if root.Selections()[0].Head != Pos(0, 2) {
		t.Error("root should copy the selections it is given")
	}

	root.ReplaceCursor(Pos(0, 1))
	if !root.HasSingleCursor() {
		t.Error("ReplaceCursor should leave a single cursor")
	}
}
