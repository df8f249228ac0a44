package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		valid    bool
	}{
		{"debug", LevelDebug, true},
		{"DEBUG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"Warning", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
		if got := ValidLevel(tt.input); got != tt.valid {
			t.Errorf("ValidLevel(%q) = %v, expected %v", tt.input, got, tt.valid)
		}
	}
}

func newTestLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug)

	l.WithComponent("patch").WithField("lines", 3).Debug("replaced %s", "window")

	want := "2024-01-02T03:04:05.000 [DEBUG] test: replaced window {component=patch, lines=3}\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below the level were written: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected 2 lines, got %q", out)
	}

	l.SetLevel(LevelDebug)
	if l.Level() != LevelDebug {
		t.Errorf("Level() = %v", l.Level())
	}
}

func TestDerivedLoggerKeepsParentFields(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, LevelInfo).WithField("file", "todo.md")
	child := parent.WithFields(map[string]any{"action": "outliner.indent"})

	parent.Info("parent")
	if strings.Contains(buf.String(), "action=") {
		t.Errorf("child fields leaked into parent: %q", buf.String())
	}
	buf.Reset()

	child.Info("child")
	if !strings.Contains(buf.String(), "{action=outliner.indent, file=todo.md}") {
		t.Errorf("child output = %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.Error("nothing")
	l.WithComponent("x").Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("Nop logger wrote %q", buf.String())
	}
}
