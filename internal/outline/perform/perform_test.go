package perform

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/logging"
	"github.com/dshills/outliner/internal/outline"
	"github.com/dshills/outliner/internal/outline/ops"
)

func newPerformer(out *bytes.Buffer) *Performer {
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: out})
	return NewPerformer(outline.KeepCursorBulletAndCheckbox, WithLogger(logger))
}

func TestPerformWorkedExamples(t *testing.T) {
	tests := []struct {
		name   string
		before string
		op     ops.Operation
		after  string
	}{
		{"indent", "- a\n- b|", ops.Indent(ops.DefaultIndentChars), "- a\n\t- b|"},
		{"new item", "- hello|world", ops.CreateNewItem(ops.DefaultIndentChars, ops.NoZoom), "- hello\n- |world"},
		{"merge empty item", "- a\n- |", ops.DeleteBackward(), "- a|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromMarked(tt.before)
			res, err := newPerformer(&bytes.Buffer{}).Perform(buf, tt.op)
			if err != nil {
				t.Fatalf("Perform() error = %v", err)
			}
			if !res.ShouldUpdate || !res.ShouldStopPropagation {
				t.Errorf("Result = %+v", res)
			}
			if got := buf.Marked(); got != tt.after {
				t.Errorf("Marked() = %q, want %q", got, tt.after)
			}
		})
	}
}

func TestPerformOutsideOutline(t *testing.T) {
	buf := buffer.NewBufferFromMarked("plain text|\n- a")
	rev := buf.RevisionID()
	res, err := newPerformer(&bytes.Buffer{}).Perform(buf, ops.Indent(ops.DefaultIndentChars))
	if err != nil || res != (ops.Result{}) {
		t.Errorf("Perform() = %+v, %v", res, err)
	}
	if buf.RevisionID() != rev {
		t.Error("buffer should not change")
	}
}

func TestPerformMalformedIsLogged(t *testing.T) {
	var out bytes.Buffer
	buf := buffer.NewBufferFromMarked("- a\n\t- b\n  - c|")
	res, err := newPerformer(&out).Perform(buf, ops.Outdent())
	if err != nil || res != (ops.Result{}) {
		t.Errorf("Perform() = %+v, %v", res, err)
	}
	if !strings.Contains(out.String(), "[WARN]") || !strings.Contains(out.String(), "component=parser") {
		t.Errorf("log = %q", out.String())
	}
	if buf.Text() != "- a\n\t- b\n  - c" {
		t.Errorf("buffer changed: %q", buf.Text())
	}
}

func TestPerformLogsPatch(t *testing.T) {
	var out bytes.Buffer
	buf := buffer.NewBufferFromMarked("- a\n- b|")
	if _, err := newPerformer(&out).Perform(buf, ops.MoveUp()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "component=patch") {
		t.Errorf("log = %q", out.String())
	}
}

func TestEvalChainsOnOneRoot(t *testing.T) {
	buf := buffer.NewBufferFromMarked("- a\n  - |")
	p := newPerformer(&bytes.Buffer{})
	root := p.Parse(buf, buf.GetCursor())
	if root == nil {
		t.Fatal("Parse() = nil")
	}

	res, err := p.Eval(root, ops.OutdentIfEmpty(), buf)
	if err != nil || !res.ShouldUpdate {
		t.Fatalf("Eval(OutdentIfEmpty) = %+v, %v", res, err)
	}
	if got := buf.Marked(); got != "- a\n- |" {
		t.Fatalf("Marked() = %q", got)
	}

	// The same root keeps the outdented state, so the next operation sees it.
	res, err = p.Eval(root, ops.CreateNewItem(ops.DefaultIndentChars, ops.NoZoom), buf)
	if err != nil || res.ShouldUpdate {
		t.Errorf("Eval(CreateNewItem) = %+v, %v, want no update on an empty item", res, err)
	}
	if got := buf.Marked(); got != "- a\n- |" {
		t.Errorf("Marked() = %q", got)
	}
}

func TestEvalChainAcrossLineCountChange(t *testing.T) {
	buf := buffer.NewBufferFromMarked("- a|\n- b\ntail")
	p := newPerformer(&bytes.Buffer{})
	root := p.Parse(buf, buf.GetCursor())

	for _, op := range []ops.Operation{ops.InsertBelow(), ops.MoveUp(), ops.MoveDown(), ops.MoveDown()} {
		if _, err := p.Eval(root, op, buf); err != nil {
			t.Fatal(err)
		}
	}
	if got := buf.Marked(); got != "- a\n- b\n- |\ntail" {
		t.Errorf("Marked() = %q", got)
	}
}

func TestEvalCursorOnlyChange(t *testing.T) {
	buf := buffer.NewBufferFromMarked("|- a")
	rev := buf.RevisionID()
	res, err := newPerformer(&bytes.Buffer{}).Perform(buf, ops.ClampWithinContent())
	if err != nil || !res.ShouldUpdate {
		t.Fatalf("Perform() = %+v, %v", res, err)
	}
	if buf.RevisionID() != rev {
		t.Error("cursor-only change should not edit text")
	}
	if got := buf.Marked(); got != "- |a" {
		t.Errorf("Marked() = %q", got)
	}
}

func TestEvalRecoversInvariantPanic(t *testing.T) {
	buf := buffer.NewBufferFromMarked("- a|")
	p := newPerformer(&bytes.Buffer{})
	root := p.Parse(buf, buf.GetCursor())

	broken := func(root *outline.Root) ops.Result {
		l := root.ListUnderCursor()
		l.SetNotesIndent("  ")
		l.SetNotesIndent("    ")
		return ops.Result{ShouldUpdate: true}
	}
	_, err := p.Eval(root, broken, buf)
	if !errors.Is(err, ErrStructuralInvariant) || !errors.Is(err, outline.ErrNotesIndentAlreadySet) {
		t.Errorf("Eval() error = %v", err)
	}
	if buf.Text() != "- a" {
		t.Errorf("buffer changed: %q", buf.Text())
	}
}

func TestEvalPropagatesOtherPanics(t *testing.T) {
	buf := buffer.NewBufferFromMarked("- a|")
	p := newPerformer(&bytes.Buffer{})
	root := p.Parse(buf, buf.GetCursor())

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	_, _ = p.Eval(root, func(*outline.Root) ops.Result { panic("boom") }, buf)
}
