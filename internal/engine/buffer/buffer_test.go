package buffer

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/outliner/internal/outline"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if b.Text() != "" {
		t.Errorf("expected empty text, got %q", b.Text())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.GetCursor() != outline.Pos(0, 0) {
		t.Errorf("expected cursor at origin, got %v", b.GetCursor())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\r\nline2\nline3")

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.GetLine(i); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", i, got, want)
		}
	}
	if b.GetLine(7) != "" {
		t.Error("line outside the buffer should read as empty")
	}
}

func TestNewBufferFromReaderKeepsLineEnding(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("- a\r\n- b\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if b.LineEnding() != LineEndingCRLF {
		t.Errorf("LineEnding() = %v, want CRLF", b.LineEnding())
	}
	if b.Text() != "- a\n- b\n" {
		t.Errorf("Text() = %q", b.Text())
	}

	var out bytes.Buffer
	if _, err := b.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "- a\r\n- b\r\n" {
		t.Errorf("WriteTo() = %q", out.String())
	}
}

func TestGetRange(t *testing.T) {
	b := NewBufferFromString("hello\nbig\nworld")

	tests := []struct {
		name     string
		from, to outline.Position
		want     string
	}{
		{"same line", outline.Pos(0, 1), outline.Pos(0, 4), "ell"},
		{"two lines", outline.Pos(0, 3), outline.Pos(1, 2), "lo\nbi"},
		{"three lines", outline.Pos(0, 5), outline.Pos(2, 0), "\nbig\n"},
		{"reversed", outline.Pos(1, 0), outline.Pos(0, 0), ""},
		{"past line end", outline.Pos(0, 0), outline.Pos(0, 9), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.GetRange(tt.from, tt.to); got != tt.want {
				t.Errorf("GetRange() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceRange(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		from, to outline.Position
		insert   string
		want     string
	}{
		{"insert", "- a", outline.Pos(0, 3), outline.Pos(0, 3), "bc", "- abc"},
		{"split line", "- ab", outline.Pos(0, 3), outline.Pos(0, 3), "\n- ", "- a\n- b"},
		{"join lines", "- a\n- b", outline.Pos(0, 3), outline.Pos(1, 2), "", "- ab"},
		{"replace block", "x\n- a\n- b\ny", outline.Pos(1, 0), outline.Pos(2, 3), "- b\n\t- a", "x\n- b\n\t- a\ny"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.text)
			if err := b.ReplaceRange(tt.insert, tt.from, tt.to); err != nil {
				t.Fatalf("ReplaceRange() error = %v", err)
			}
			if got := b.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceRangeInvalid(t *testing.T) {
	b := NewBufferFromString("abc")
	rev := b.RevisionID()

	if err := b.ReplaceRange("x", outline.Pos(3, 0), outline.Pos(3, 0)); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
	if err := b.ReplaceRange("x", outline.Pos(0, 2), outline.Pos(0, 1)); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if b.RevisionID() != rev {
		t.Error("failed replace should not create a revision")
	}
}

type recorderFunc func(Change)

func (f recorderFunc) Record(c Change) { f(c) }

func TestReplaceRangeRecordsChange(t *testing.T) {
	b := NewBufferFromMarked("- a|\n- b")
	var got []Change
	b.SetRecorder(recorderFunc(func(c Change) { got = append(got, c) }))

	if err := b.ReplaceRange("x\ny", outline.Pos(0, 2), outline.Pos(1, 3)); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("recorded %d changes, want 1", len(got))
	}
	c := got[0]
	if c.OldText != "a\n- b" || c.NewText != "x\ny" {
		t.Errorf("change = %v", c)
	}
	if c.OldEnd() != outline.Pos(1, 3) || c.NewEnd() != outline.Pos(1, 1) {
		t.Errorf("OldEnd() = %v, NewEnd() = %v", c.OldEnd(), c.NewEnd())
	}
	if len(c.SelectionsBefore) != 1 || c.SelectionsBefore[0].Head != outline.Pos(0, 3) {
		t.Errorf("SelectionsBefore = %v", c.SelectionsBefore)
	}

	if err := b.Apply(c.Invert()); err != nil {
		t.Fatalf("Apply(Invert()) error = %v", err)
	}
	if b.Text() != "- a\n- b" {
		t.Errorf("Text() after undo = %q", b.Text())
	}
	if len(got) != 1 {
		t.Error("Apply should not be recorded")
	}
	if err := b.Apply(c.Invert()); !errors.Is(err, ErrStaleChange) {
		t.Errorf("second Apply() error = %v, want ErrStaleChange", err)
	}
}

func TestFoldsFollowEdits(t *testing.T) {
	b := NewBufferFromString("- a\n  - a1\n- b\n  - b1\n- c\n  - c1")
	b.Fold(0)
	b.Fold(2)
	b.Fold(4)

	// Insert two lines inside the b item.
	if err := b.ReplaceRange("\n  - b0\n", outline.Pos(2, 3), outline.Pos(2, 3)); err != nil {
		t.Fatal(err)
	}
	folded := b.GetAllFoldedLines()
	want := []int{0, 2, 6}
	if len(folded) != len(want) {
		t.Fatalf("GetAllFoldedLines() = %v, want %v", folded, want)
	}
	for i := range want {
		if folded[i] != want[i] {
			t.Errorf("GetAllFoldedLines() = %v, want %v", folded, want)
			break
		}
	}

	// Replacing the lines of a fold drops it.
	if err := b.ReplaceRange("x", outline.Pos(5, 0), outline.Pos(6, 3)); err != nil {
		t.Fatal(err)
	}
	if b.IsFolded(6) || b.IsFolded(5) {
		t.Errorf("fold inside a replaced range should be dropped: %v", b.GetAllFoldedLines())
	}

	b.Unfold(0)
	if b.IsFolded(0) {
		t.Error("Unfold(0) did not unfold")
	}
	b.Fold(99)
	if b.IsFolded(99) {
		t.Error("fold past the end should be ignored")
	}
}

func TestSelections(t *testing.T) {
	b := NewBufferFromString("abc")
	b.SetSelections([]outline.Selection{
		outline.NewSelection(outline.Pos(0, 0), outline.Pos(0, 1)),
		outline.NewCursorSelection(outline.Pos(0, 2)),
	})
	if b.GetCursor() != outline.Pos(0, 2) {
		t.Errorf("GetCursor() = %v, want last selection head", b.GetCursor())
	}
	b.SetSelections(nil)
	if len(b.ListSelections()) != 2 {
		t.Error("empty selections should be ignored")
	}
	b.SetCursor(outline.Pos(0, 1))
	if sels := b.ListSelections(); len(sels) != 1 || !sels[0].IsCursor() {
		t.Errorf("ListSelections() = %v", sels)
	}
}

func TestInsertMovesCursor(t *testing.T) {
	b := NewBufferFromMarked("- a|")
	if err := b.Insert(b.GetCursor(), "b\nc"); err != nil {
		t.Fatal(err)
	}
	if got := b.Marked(); got != "- ab\nc|" {
		t.Errorf("Marked() = %q", got)
	}
}

func TestMarked(t *testing.T) {
	tests := []string{
		"- a|",
		"- |a\n- b",
		"- ^ab|",
		"- a|b^",
		"- ^a\n- b|",
		"|",
	}
	for _, text := range tests {
		if got := NewBufferFromMarked(text).Marked(); got != text {
			t.Errorf("Marked() = %q, want %q", got, text)
		}
	}

	b := NewBufferFromMarked("- ^ab|")
	sel := b.ListSelections()[0]
	if sel.Anchor != outline.Pos(0, 2) || sel.Head != outline.Pos(0, 4) {
		t.Errorf("selection = %v", sel)
	}
	if b.Text() != "- ab" {
		t.Errorf("Text() = %q", b.Text())
	}
}

func TestSnapshotIsStable(t *testing.T) {
	b := NewBufferFromMarked("- a|")
	b.Fold(0)
	snap := b.Snapshot()

	if err := b.Insert(b.GetCursor(), "bc"); err != nil {
		t.Fatal(err)
	}
	b.Unfold(0)

	if snap.Text() != "- a" || snap.GetLine(0) != "- a" {
		t.Errorf("snapshot changed: %q", snap.Text())
	}
	if folded := snap.GetAllFoldedLines(); len(folded) != 1 || folded[0] != 0 {
		t.Errorf("snapshot folds = %v", folded)
	}
	if snap.RevisionID() == b.RevisionID() {
		t.Error("snapshot revision should differ after an edit")
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"", LineEndingLF},
		{"a\nb\n", LineEndingLF},
		{"a\r\nb\r\n", LineEndingCRLF},
		{"a\rb\r", LineEndingCR},
	}
	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	b := NewBufferFromString("- a")
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = b.Insert(outline.Pos(0, 0), "x")
		}()
		go func() {
			defer wg.Done()
			_ = b.Text()
			_ = b.GetAllFoldedLines()
		}()
	}
	wg.Wait()
	if got := len(b.GetLine(0)); got != 13 {
		t.Errorf("line length = %d, want 13", got)
	}
}
