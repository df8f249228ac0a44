package buffer

import (
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// Snapshot is a read-only view of a buffer at one revision. It implements
// outline.Reader and is safe to use while the buffer keeps changing.
type Snapshot struct {
	lines      []string
	selections []outline.Selection
	folded     []int
	revisionID RevisionID
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, "\n")
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// GetLine returns the text of line n, or "" outside the snapshot.
func (s *Snapshot) GetLine(n int) string {
	if n < 0 || n >= len(s.lines) {
		return ""
	}
	return s.lines[n]
}

// LastLine returns the index of the last line.
func (s *Snapshot) LastLine() int {
	return len(s.lines) - 1
}

// ListSelections returns the selections at the time of the snapshot.
func (s *Snapshot) ListSelections() []outline.Selection {
	return append([]outline.Selection(nil), s.selections...)
}

// GetAllFoldedLines returns the folded lines in ascending order.
func (s *Snapshot) GetAllFoldedLines() []int {
	return append([]int(nil), s.folded...)
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

var _ outline.Reader = (*Snapshot)(nil)
