package ops

import (
	"testing"

	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/outline"
)

// opCase describes an operation run on marked text. When update is false the
// text is expected to stay as it was.
type opCase struct {
	name   string
	before string
	after  string
	update bool
	stop   bool
	folds  []int
	mode   outline.CursorMode
}

// apply parses before, runs op and writes the resulting region and
// selections back into the buffer.
func apply(t *testing.T, op Operation, tc opCase) (string, Result) {
	t.Helper()
	buf := buffer.NewBufferFromMarked(tc.before)
	for _, l := range tc.folds {
		buf.Fold(l)
	}
	mode := tc.mode
	if mode == "" {
		mode = outline.KeepCursorBulletAndCheckbox
	}
	root, err := outline.NewParser(mode).Parse(buf, buf.GetCursor())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if root == nil {
		t.Fatal("Parse() found no outline")
	}

	res := op(root)
	if !res.ShouldUpdate {
		return buf.Marked(), res
	}
	start, end := root.ContentRange()
	if err := buf.ReplaceRange(root.Print(), start, end); err != nil {
		t.Fatalf("ReplaceRange() error = %v", err)
	}
	buf.SetSelections(root.Selections())
	return buf.Marked(), res
}

func newMarked(t *testing.T, text string) *buffer.Buffer {
	t.Helper()
	return buffer.NewBufferFromMarked(text)
}

func mustParse(t *testing.T, buf *buffer.Buffer) *outline.Root {
	t.Helper()
	root, err := outline.NewParser(outline.KeepCursorBulletAndCheckbox).Parse(buf, buf.GetCursor())
	if err != nil || root == nil {
		t.Fatalf("Parse() = %v, %v", root, err)
	}
	return root
}

func runCases(t *testing.T, op func() Operation, cases []opCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, res := apply(t, op(), tc)
			if res.ShouldUpdate != tc.update {
				t.Errorf("ShouldUpdate = %v, want %v", res.ShouldUpdate, tc.update)
			}
			if res.ShouldStopPropagation != (tc.stop || tc.update) {
				t.Errorf("ShouldStopPropagation = %v, want %v", res.ShouldStopPropagation, tc.stop || tc.update)
			}
			want := tc.after
			if !tc.update {
				want = tc.before
			}
			if got != want {
				t.Errorf("result:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestPlacementValid(t *testing.T) {
	for _, p := range []Placement{Before, After, Inside} {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Placement("around").Valid() {
		t.Error("unknown placement should be invalid")
	}
}

func TestOperationsIgnoreMultipleCursors(t *testing.T) {
	buf := buffer.NewBufferFromString("- a\n- b")
	buf.SetSelections([]outline.Selection{
		outline.NewCursorSelection(outline.Pos(0, 3)),
		outline.NewCursorSelection(outline.Pos(1, 3)),
	})
	root, err := outline.NewParser(outline.KeepCursorBulletOnly).Parse(buf, buf.GetCursor())
	if err != nil || root == nil {
		t.Fatalf("Parse() = %v, %v", root, err)
	}

	operations := map[string]Operation{
		"indent":    Indent(DefaultIndentChars),
		"outdent":   Outdent(),
		"moveUp":    MoveUp(),
		"moveDown":  MoveDown(),
		"newItem":   CreateNewItem(DefaultIndentChars, NoZoom),
		"noteLine":  CreateNoteLine(),
		"backspace": DeleteBackward(),
		"delete":    DeleteForward(),
		"truncate":  TruncateToLineStart(),
		"select":    SelectContent(),
		"left":      PreviousUnfoldedLine(),
	}
	for name, op := range operations {
		if res := op(root); res != (Result{}) {
			t.Errorf("%s: Result = %+v, want zero", name, res)
		}
	}
	if root.Print() != "- a\n- b" {
		t.Errorf("tree changed: %q", root.Print())
	}
}
