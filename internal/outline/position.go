package outline

import "fmt"

// Position represents a line and column position in the host document.
// Both Line and Column are 0-indexed; Column is measured in bytes.
type Position struct {
	Line   int
	Column int
}

// Pos is shorthand for Position{Line: line, Column: column}.
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Shift returns the position moved by the given line and column deltas.
func (p Position) Shift(lines, columns int) Position {
	return Position{Line: p.Line + lines, Column: p.Column + columns}
}

// MinPosition returns the earlier of two positions.
func MinPosition(a, b Position) Position {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxPosition returns the later of two positions.
func MaxPosition(a, b Position) Position {
	if a.After(b) {
		return a
	}
	return b
}

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is the cursor position.
// When Anchor == Head, this represents a cursor with no selection.
type Selection struct {
	Anchor Position
	Head   Position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection representing just a cursor.
func NewCursorSelection(p Position) Selection {
	return Selection{Anchor: p, Head: p}
}

// IsCursor returns true if the selection has no extent.
func (s Selection) IsCursor() bool {
	return s.Anchor == s.Head
}

// From returns the lower bound of the selection.
func (s Selection) From() Position {
	return MinPosition(s.Anchor, s.Head)
}

// To returns the upper bound of the selection.
func (s Selection) To() Position {
	return MaxPosition(s.Anchor, s.Head)
}

// IsSingleLine returns true if anchor and head are on the same line.
func (s Selection) IsSingleLine() bool {
	return s.Anchor.Line == s.Head.Line
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("[%s->%s]", s.Anchor, s.Head)
}
