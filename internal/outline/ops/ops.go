// Package ops implements the structural and cursor operations of the
// outliner.
//
// An Operation is a function over a parsed outline.Root. It mutates the tree
// and its selections in place and returns a Result telling the caller whether
// the buffer needs to be updated and whether the triggering host action should
// be swallowed. An operation whose preconditions are not met leaves the tree
// untouched and returns a zero Result.
package ops

import (
	"github.com/dshills/outliner/internal/outline"
)

// Result reports the outcome of an operation.
type Result struct {
	// ShouldUpdate is true if the tree changed and must be written back.
	ShouldUpdate bool
	// ShouldStopPropagation is true if the host must not run its own
	// default behavior for the triggering action.
	ShouldStopPropagation bool
}

// Operation mutates a parsed outline.
type Operation func(root *outline.Root) Result

var (
	noop    = Result{}
	stop    = Result{ShouldStopPropagation: true}
	updated = Result{ShouldUpdate: true, ShouldStopPropagation: true}
)

// DefaultIndentChars is used when no indentation can be inferred from the
// surrounding items.
const DefaultIndentChars = "\t"

// Placement tells MoveToPosition where to put the moved item relative to
// the target.
type Placement string

const (
	// Before places the item as the previous sibling of the target.
	Before Placement = "before"
	// After places the item as the next sibling of the target.
	After Placement = "after"
	// Inside places the item as the first child of the target.
	Inside Placement = "inside"
)

// Valid reports whether p is a known placement.
func (p Placement) Valid() bool {
	switch p {
	case Before, After, Inside:
		return true
	}
	return false
}

// lineIndex returns the index of the content line at document line, or -1.
func lineIndex(lines []outline.LineInfo, line int) int {
	for i, l := range lines {
		if l.From.Line == line {
			return i
		}
	}
	return -1
}

func lineTexts(lines []outline.LineInfo) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
