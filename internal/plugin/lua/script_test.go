package lua

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/outliner/internal/config"
	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/engine/history"
)

func newRunner(opts ...RunnerOption) *Runner {
	return NewRunner(dispatcher.New(config.Default().Outliner), opts...)
}

func TestRunScripts(t *testing.T) {
	tests := []struct {
		name   string
		before string
		script string
		after  string
		report Report
	}{
		{
			name:   "indent then move",
			before: "- a\n- b|\n- c",
			script: `
				outliner.perform("outliner.indent")
				outliner.cursor(3, 4)
				outliner.perform("outliner.moveUp")
			`,
			after:  "- c|\n- a\n\t- b",
			report: Report{Performed: 2, Updated: true},
		},
		{
			name:   "cursor and enter",
			before: "- one|",
			script: `
				outliner.cursor(1, 4)
				local handled, updated = outliner.perform("outliner.enter")
				assert(handled and updated)
			`,
			after:  "- o\n- |ne",
			report: Report{Performed: 1, Updated: true},
		},
		{
			name:   "select content",
			before: "- a|\n- b",
			script: `outliner.perform("outliner.selectAll")`,
			after:  "- ^a|\n- b",
			report: Report{Performed: 1, Updated: true},
		},
		{
			name:   "deferred move",
			before: "- a|\n- b\n- c",
			script: `assert(outliner.move(1, 3, "after"))`,
			after:  "- b\n- c\n- a|",
			report: Report{Performed: 1, Updated: true},
		},
		{
			name:   "zoomed item nests new items",
			before: "- a|\n- b",
			script: `
				outliner.zoom(1)
				outliner.perform("outliner.enter")
			`,
			after:  "- a\n\t- |\n- b",
			report: Report{Performed: 1, Updated: true},
		},
		{
			name:   "zoom cleared",
			before: "- a|\n- b",
			script: `
				outliner.zoom(1)
				outliner.zoom()
				outliner.perform("outliner.enter")
			`,
			after:  "- a\n- |\n- b",
			report: Report{Performed: 1, Updated: true},
		},
		{
			name:   "read only",
			before: "- a|\n- b",
			script: `
				assert(outliner.lines() == 2)
				assert(outliner.line(2) == "- b")
				assert(outliner.text() == "- a\n- b")
				local l, c = outliner.cursor()
				assert(l == 1 and c == 4)
				assert(#outliner.actions() > 10)
			`,
			after:  "- a|\n- b",
			report: Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromMarked(tt.before)
			report, err := newRunner().Run(context.Background(), buf, tt.name, tt.script)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if report != tt.report {
				t.Errorf("report = %+v, want %+v", report, tt.report)
			}
			if got := buf.Marked(); got != tt.after {
				t.Errorf("buffer = %q, want %q", got, tt.after)
			}
		})
	}
}

func TestRunFailureRollsBack(t *testing.T) {
	h := history.NewHistory(0)
	buf := buffer.NewBufferFromMarked("- a\n- b|", buffer.WithRecorder(h))
	r := NewRunner(dispatcher.New(config.Default().Outliner, dispatcher.WithHistory(h)), WithHistory(h))

	_, err := r.Run(context.Background(), buf, "fail.lua", `
		outliner.perform("outliner.indent")
		error("boom")
	`)
	var se *ScriptError
	if !errors.As(err, &se) || se.Name != "fail.lua" {
		t.Fatalf("Run() error = %v, want *ScriptError", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should carry the Lua message", err)
	}
	if got := buf.Marked(); got != "- a\n- b|" {
		t.Errorf("buffer = %q, want original", got)
	}
	if h.UndoCount() != 0 || h.IsGrouping() {
		t.Errorf("history should be untouched: undo=%d grouping=%v", h.UndoCount(), h.IsGrouping())
	}
}

func TestRunIsOneUndoStep(t *testing.T) {
	h := history.NewHistory(0)
	buf := buffer.NewBufferFromMarked("- a\n- b\n- c|", buffer.WithRecorder(h))
	r := NewRunner(dispatcher.New(config.Default().Outliner, dispatcher.WithHistory(h)), WithHistory(h))

	_, err := r.Run(context.Background(), buf, "two.lua", `
		outliner.perform("outliner.moveUp")
		outliner.perform("outliner.moveUp")
	`)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Text() != "- c\n- a\n- b" {
		t.Fatalf("buffer = %q", buf.Text())
	}
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if err := h.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if buf.Text() != "- a\n- b\n- c" {
		t.Errorf("after undo = %q", buf.Text())
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"unknown action", `outliner.perform("outliner.fly")`, "no handler"},
		{"line out of range", `outliner.line(9)`, "line out of range"},
		{"column out of range", `outliner.cursor(1, 40)`, "column out of range"},
		{"bad placement", `outliner.move(1, 2, "around")`, "invalid placement"},
		{"syntax", `outliner.perform(`, "near"},
		{"no io", `io.open("/etc/passwd")`, ""},
		{"no loaders", `dofile("/tmp/x.lua")`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromMarked("- a|\n- b")
			_, err := newRunner().Run(context.Background(), buf, "fail", tt.script)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSandboxGlobals(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"io", "os", "debug", "dofile", "loadfile", "load", "loadstring", "require"} {
		if v := s.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, v)
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := s.GetGlobal(name); v == lua.LNil {
			t.Errorf("global %s should be available", name)
		}
	}
}

func TestRunTimeout(t *testing.T) {
	buf := buffer.NewBufferFromMarked("- a|")
	r := newRunner(WithTimeout(50 * time.Millisecond))

	_, err := r.Run(context.Background(), buf, "loop", `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("Run() error = %v, want ErrExecutionTimeout", err)
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.DoString(context.Background(), "x", "return 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestPrintIsRedirected(t *testing.T) {
	var lines []string
	s := NewState(WithPrint(func(l string) { lines = append(lines, l) }))
	defer s.Close()

	if err := s.DoString(context.Background(), "p", `print("a", 1, true)`); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "a\t1\ttrue" {
		t.Errorf("print output = %q", lines)
	}
}
