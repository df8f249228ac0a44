package buffer

import (
	"fmt"
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// Change is one replacement applied to the buffer. It carries enough to undo
// and redo the replacement.
type Change struct {
	From    outline.Position // Start of the replaced range
	OldText string           // Text that was replaced
	NewText string           // Text that was inserted

	// SelectionsBefore are the selections at the time of the change.
	SelectionsBefore []outline.Selection
}

// OldEnd returns the end of the replaced range before the change.
func (c Change) OldEnd() outline.Position {
	return endOf(c.From, c.OldText)
}

// NewEnd returns the end of the inserted text after the change.
func (c Change) NewEnd() outline.Position {
	return endOf(c.From, c.NewText)
}

// Invert returns the change that undoes this one.
func (c Change) Invert() Change {
	return Change{
		From:             c.From,
		OldText:          c.NewText,
		NewText:          c.OldText,
		SelectionsBefore: c.SelectionsBefore,
	}
}

// IsNoOp returns true if the change does nothing.
func (c Change) IsNoOp() bool {
	return c.OldText == c.NewText
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch {
	case c.OldText == "":
		return fmt.Sprintf("Insert%s %q", c.From, c.NewText)
	case c.NewText == "":
		return fmt.Sprintf("Delete%s-%s", c.From, c.OldEnd())
	default:
		return fmt.Sprintf("Replace%s-%s with %q", c.From, c.OldEnd(), c.NewText)
	}
}

// endOf returns the position after text when it starts at from.
func endOf(from outline.Position, text string) outline.Position {
	n := strings.Count(text, "\n")
	if n == 0 {
		return outline.Pos(from.Line, from.Column+len(text))
	}
	return outline.Pos(from.Line+n, len(text)-strings.LastIndexByte(text, '\n')-1)
}

// Recorder receives every change made through ReplaceRange.
type Recorder interface {
	Record(change Change)
}
