package dispatcher

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/outliner/internal/config"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/engine/history"
	"github.com/dshills/outliner/internal/outline"
	"github.com/dshills/outliner/internal/outline/ops"
)

func TestDispatchActions(t *testing.T) {
	tests := []struct {
		name   string
		action string
		before string
		after  string
		want   Result
	}{
		{
			name:   "indent",
			action: ActionIndent,
			before: "- a\n- b|",
			after:  "- a\n\t- b|",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "outdent",
			action: ActionOutdent,
			before: "- a\n  - b|",
			after:  "- a\n- b|",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "move down",
			action: ActionMoveDown,
			before: "- a|\n- b",
			after:  "- b\n- a|",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "enter splits the item",
			action: ActionEnter,
			before: "- hello|world",
			after:  "- hello\n- |world",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "enter outdents an empty child",
			action: ActionEnter,
			before: "- a\n  - |",
			after:  "- a\n- |",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "backspace joins with the previous item",
			action: ActionBackspace,
			before: "- a\n- |",
			after:  "- a|",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "clamp before the bullet",
			action: ActionClampCursor,
			before: "|- a",
			after:  "- |a",
			want:   Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true},
		},
		{
			name:   "outside any outline",
			action: ActionIndent,
			before: "plain text|",
			after:  "plain text|",
			want:   Result{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(config.Default().Outliner)
			buf := buffer.NewBufferFromMarked(tt.before)

			got, err := d.Dispatch(tt.action, buf)
			if err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Dispatch() = %+v, want %+v", got, tt.want)
			}
			if text := buf.Marked(); text != tt.after {
				t.Errorf("buffer = %q, want %q", text, tt.after)
			}
		})
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	d := New(config.Default().Outliner)
	_, err := d.Dispatch("outliner.nope", buffer.NewBufferFromMarked("- a|"))
	if !errors.Is(err, ErrNoHandler) {
		t.Errorf("Dispatch() error = %v, want ErrNoHandler", err)
	}
}

func TestFeatureGates(t *testing.T) {
	tests := []struct {
		name    string
		disable func(*config.OutlinerConfig)
		action  string
		before  string
	}{
		{"tab", func(c *config.OutlinerConfig) { c.OverrideTabBehaviour = false }, ActionIndent, "- a\n- b|"},
		{"enter", func(c *config.OutlinerConfig) { c.OverrideEnterBehaviour = false }, ActionEnter, "- ab|"},
		{"note line", func(c *config.OutlinerConfig) { c.OverrideEnterBehaviour = false }, ActionNoteLine, "- ab|"},
		{"select all", func(c *config.OutlinerConfig) { c.OverrideSelectAllBehaviour = false }, ActionSelectAll, "- ab|"},
		{"vim o", func(c *config.OutlinerConfig) { c.OverrideVimOBehaviour = false }, ActionInsertBelow, "- ab|"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Outliner
			tt.disable(&cfg)
			d := New(cfg)
			buf := buffer.NewBufferFromMarked(tt.before)

			got, err := d.Dispatch(tt.action, buf)
			if err != nil || got != (Result{}) {
				t.Errorf("Dispatch() = %+v, %v; want zero result", got, err)
			}
			if buf.Marked() != tt.before {
				t.Errorf("buffer changed to %q", buf.Marked())
			}
		})
	}
}

func TestClampNeverKeepsCursor(t *testing.T) {
	cfg := config.Default().Outliner
	cfg.KeepCursorWithinContent = outline.KeepCursorNever
	d := New(cfg)

	tests := []struct {
		name string
		text string
		fold bool
	}{
		{"before the bullet", "|- a", false},
		{"inside a fold", "- a\n  - b|", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromMarked(tt.text)
			if tt.fold {
				buf.Fold(0)
			}
			res, err := d.Dispatch(ActionClampCursor, buf)
			if err != nil {
				t.Fatal(err)
			}
			if res.Handled || buf.Marked() != tt.text {
				t.Errorf("clamp with never = %+v, buffer %q", res, buf.Marked())
			}
		})
	}
}

func TestClampOutsideFold(t *testing.T) {
	d := New(config.Default().Outliner)
	buf := buffer.NewBufferFromMarked("- a\n  - b|")
	buf.Fold(0)
	if _, err := d.Dispatch(ActionClampCursor, buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.Marked(); got != "- a|\n  - b" {
		t.Errorf("cursor = %q, want it on the fold line", got)
	}
}

func TestZoomedEnter(t *testing.T) {
	d := New(config.Default().Outliner)
	if d.ZoomLine() != ops.NoZoom {
		t.Fatalf("ZoomLine() = %d, want NoZoom", d.ZoomLine())
	}

	d.SetZoomLine(0)
	buf := buffer.NewBufferFromMarked("- a|\n- b")
	if _, err := d.Dispatch(ActionEnter, buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.Marked(); got != "- a\n\t- |\n- b" {
		t.Errorf("zoomed enter = %q", got)
	}

	d.SetZoomLine(ops.NoZoom)
	buf = buffer.NewBufferFromMarked("- a|\n- b")
	if _, err := d.Dispatch(ActionEnter, buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.Marked(); got != "- a\n- |\n- b" {
		t.Errorf("enter = %q", got)
	}
}

func TestSetConfig(t *testing.T) {
	cfg := config.Default().Outliner
	cfg.OverrideTabBehaviour = false
	d := New(cfg)
	buf := buffer.NewBufferFromMarked("- a\n- b|")

	if res, _ := d.Dispatch(ActionIndent, buf); res.Handled {
		t.Fatal("indent should be disabled")
	}
	cfg.OverrideTabBehaviour = true
	cfg.DefaultIndentChars = "  "
	d.SetConfig(cfg)
	if res, _ := d.Dispatch(ActionIndent, buf); !res.ShouldUpdate {
		t.Fatal("indent should be enabled after SetConfig")
	}
	if got := buf.Marked(); got != "- a\n  - b|" {
		t.Errorf("buffer = %q", got)
	}
}

func TestToggleFold(t *testing.T) {
	d := New(config.Default().Outliner)
	buf := buffer.NewBufferFromMarked("- a|\n  - b")

	if _, err := d.Dispatch(ActionToggleFold, buf); err != nil {
		t.Fatal(err)
	}
	if !buf.IsFolded(0) {
		t.Fatal("item should be folded")
	}
	if res, _ := d.Dispatch(ActionFold, buf); res.ShouldUpdate {
		t.Error("folding a folded item should not update")
	}
	if _, err := d.Dispatch(ActionToggleFold, buf); err != nil {
		t.Fatal(err)
	}
	if buf.IsFolded(0) {
		t.Error("item should be unfolded")
	}

	leaf := buffer.NewBufferFromMarked("- a|\n- b")
	res, _ := d.Dispatch(ActionFold, leaf)
	if res.ShouldUpdate || leaf.IsFolded(0) {
		t.Errorf("leaf fold = %+v, folded %v", res, leaf.IsFolded(0))
	}
	if !res.ShouldStopPropagation {
		t.Error("fold on an item should stop propagation")
	}
}

func TestFoldNestedItem(t *testing.T) {
	d := New(config.Default().Outliner)
	buf := buffer.NewBufferFromMarked("- a\n  - b\n    - c|")
	buf.SetCursor(outline.Pos(1, 5))

	if _, err := d.Dispatch(ActionFold, buf); err != nil {
		t.Fatal(err)
	}
	if !buf.IsFolded(1) {
		t.Fatal("b should be folded")
	}
	if got := buf.GetCursor(); got != outline.Pos(1, 5) {
		t.Errorf("cursor = %v, want it unchanged on the fold line", got)
	}
}

func TestActionIsOneUndoStep(t *testing.T) {
	h := history.NewHistory(0)
	d := New(config.Default().Outliner, WithHistory(h))
	buf := buffer.NewBufferFromMarked("- a\n- b|", buffer.WithRecorder(h))

	if _, err := d.Dispatch(ActionIndent, buf); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Dispatch(ActionEnter, buf); err != nil {
		t.Fatal(err)
	}
	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", h.UndoCount())
	}
	if err := h.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.Text(); got != "- a\n\t- b" {
		t.Errorf("after undo = %q", got)
	}
	if err := h.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.Text(); got != "- a\n- b" {
		t.Errorf("after second undo = %q", got)
	}
}

func TestDeferredMove(t *testing.T) {
	d := New(config.Default().Outliner)
	buf := buffer.NewBufferFromMarked("- a|\n- b\n- c")

	id, err := d.BeginMove(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := d.CommitMove(buf, id, 2, ops.After)
	if err != nil {
		t.Fatal(err)
	}
	if !res.ShouldUpdate || buf.Text() != "- b\n- c\n- a" {
		t.Errorf("CommitMove() = %+v, buffer %q", res, buf.Text())
	}

	if _, err := d.CommitMove(buf, uuid.New(), 0, "sideways"); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("bad placement error = %v", err)
	}
	if err := d.CancelMove(uuid.New()); err == nil {
		t.Error("CancelMove of an unknown id should fail")
	}
}

func TestDeferredMoveDisabled(t *testing.T) {
	cfg := config.Default().Outliner
	cfg.DragAndDrop = false
	d := New(cfg)
	buf := buffer.NewBufferFromMarked("- a|\n- b")

	if _, err := d.BeginMove(buf, 0); !errors.Is(err, ErrFeatureDisabled) {
		t.Errorf("BeginMove() error = %v, want ErrFeatureDisabled", err)
	}
	if _, err := d.CommitMove(buf, uuid.New(), 1, ops.Before); !errors.Is(err, ErrFeatureDisabled) {
		t.Errorf("CommitMove() error = %v, want ErrFeatureDisabled", err)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	d := New(config.Default().Outliner, WithMetrics(m))
	buf := buffer.NewBufferFromMarked("- a\n- b|")

	d.Dispatch(ActionIndent, buf)
	d.Dispatch(ActionIndent, buf)
	d.Dispatch(ActionMoveUp, buf)

	if m.TotalDispatches() != 3 {
		t.Errorf("TotalDispatches() = %d", m.TotalDispatches())
	}
	stats := m.ActionStats(ActionIndent)
	if stats == nil || stats.DispatchCount != 2 || stats.UpdateCount != 1 {
		t.Errorf("indent stats = %+v", stats)
	}
	top := m.TopActions(1)
	if len(top) != 1 || top[0].Name != ActionIndent {
		t.Errorf("TopActions(1) = %+v", top)
	}
	m.Reset()
	if m.TotalDispatches() != 0 || m.ActionStats(ActionIndent) != nil {
		t.Error("Reset() should clear metrics")
	}
}

func TestRegistry(t *testing.T) {
	d := New(config.Default().Outliner)
	if len(d.Actions()) != 17 {
		t.Errorf("Actions() = %v", d.Actions())
	}

	called := false
	d.Registry().Register("host.custom", func(Editor) (Result, error) {
		called = true
		return Result{Handled: true}, nil
	}, nil)
	if _, err := d.Dispatch("host.custom", buffer.NewBufferFromMarked("")); err != nil || !called {
		t.Errorf("custom action: called=%v err=%v", called, err)
	}
	d.Registry().Unregister("host.custom")
	if d.Registry().Has("host.custom") {
		t.Error("Unregister should remove the action")
	}
}
