package buffer

import (
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// Selection markers understood by NewBufferFromMarked and written by Marked.
const (
	HeadMarker   = "|"
	AnchorMarker = "^"
)

// NewBufferFromMarked creates a buffer from text where "|" marks the cursor
// and an optional "^" marks the selection anchor. Both markers are removed.
// Without markers the cursor is at the origin.
func NewBufferFromMarked(text string, opts ...Option) *Buffer {
	lines := strings.Split(normalizeLineEndings(text), "\n")
	var head, anchor outline.Position
	hasAnchor := false
	for i, line := range lines {
		for {
			h := strings.Index(line, HeadMarker)
			a := strings.Index(line, AnchorMarker)
			if h < 0 && a < 0 {
				break
			}
			if a >= 0 && (h < 0 || a < h) {
				anchor, hasAnchor = outline.Pos(i, a), true
				line = line[:a] + line[a+1:]
				continue
			}
			head = outline.Pos(i, h)
			line = line[:h] + line[h+1:]
		}
		lines[i] = line
	}
	if !hasAnchor {
		anchor = head
	}

	b := NewBuffer(opts...)
	b.lines = lines
	b.selections = []outline.Selection{outline.NewSelection(anchor, head)}
	return b
}

// Marked returns the buffer text with the primary selection marked the way
// NewBufferFromMarked reads it.
func (b *Buffer) Marked() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := append([]string(nil), b.lines...)
	sel := b.selections[len(b.selections)-1]
	type mark struct {
		pos    outline.Position
		marker string
	}
	// Later positions are inserted first so earlier columns stay valid.
	marks := []mark{{sel.Head, HeadMarker}}
	if !sel.IsCursor() {
		marks = append(marks, mark{sel.Anchor, AnchorMarker})
		if sel.Anchor.After(sel.Head) {
			marks[0], marks[1] = marks[1], marks[0]
		}
	}
	for _, m := range marks {
		if m.pos.Line < 0 || m.pos.Line >= len(lines) {
			continue
		}
		line := lines[m.pos.Line]
		col := min(max(m.pos.Column, 0), len(line))
		lines[m.pos.Line] = line[:col] + m.marker + line[col:]
	}
	return strings.Join(lines, "\n")
}
