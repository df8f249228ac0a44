package buffer

import (
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/outliner/internal/outline"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange = errors.New("line out of range")
	ErrRangeInvalid   = errors.New("invalid range")
	ErrStaleChange    = errors.New("change does not match buffer content")
)

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Buffer is a line-based text buffer that carries the host state the outline
// engine works with: selections and folded lines. It implements
// outline.Editor. All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	lineEnding LineEnding
	selections []outline.Selection
	folds      map[int]struct{}
	revisionID RevisionID
	recorder   Recorder
}

// NewBuffer creates a new empty buffer with the cursor at the origin.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []string{""},
		lineEnding: LineEndingLF,
		selections: []outline.Selection{outline.NewCursorSelection(outline.Position{})},
		folds:      make(map[int]struct{}),
		revisionID: NewRevisionID(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = strings.Split(normalizeLineEndings(s), "\n")
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader. The line ending
// style of the content is detected and used when writing the buffer back.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	opts = append([]Option{WithDetectedLineEnding(text)}, opts...)
	return NewBufferFromString(text, opts...), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the full buffer content joined with LF.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// WriteTo writes the buffer using its line ending style.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	text := strings.Join(b.lines, b.lineEnding.Sequence())
	b.mu.RUnlock()
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// GetLine returns the text of line n without its terminator. Lines outside the
// buffer read as empty.
func (b *Buffer) GetLine(n int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n < 0 || n >= len(b.lines) {
		return ""
	}
	return b.lines[n]
}

// LastLine returns the index of the last line.
func (b *Buffer) LastLine() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) - 1
}

// GetRange returns the text between from and to. An invalid range reads as
// empty.
func (b *Buffer) GetRange(from, to outline.Position) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.checkRange(from, to) != nil {
		return ""
	}
	return b.rangeLocked(from, to)
}

func (b *Buffer) rangeLocked(from, to outline.Position) string {
	if from.Line == to.Line {
		return b.lines[from.Line][from.Column:to.Column]
	}
	var sb strings.Builder
	sb.WriteString(b.lines[from.Line][from.Column:])
	for l := from.Line + 1; l < to.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[l])
	}
	sb.WriteByte('\n')
	sb.WriteString(b.lines[to.Line][:to.Column])
	return sb.String()
}

func (b *Buffer) checkPosition(p outline.Position) error {
	if p.Line < 0 || p.Line >= len(b.lines) {
		return ErrLineOutOfRange
	}
	if p.Column < 0 || p.Column > len(b.lines[p.Line]) {
		return ErrRangeInvalid
	}
	return nil
}

func (b *Buffer) checkRange(from, to outline.Position) error {
	if err := b.checkPosition(from); err != nil {
		return err
	}
	if err := b.checkPosition(to); err != nil {
		return err
	}
	if to.Before(from) {
		return ErrRangeInvalid
	}
	return nil
}

// Selections

// ListSelections returns a copy of the selections.
func (b *Buffer) ListSelections() []outline.Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.selections)
}

// GetCursor returns the head of the primary (last) selection.
func (b *Buffer) GetCursor() outline.Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selections[len(b.selections)-1].Head
}

// SetSelections replaces all selections. An empty list is ignored.
func (b *Buffer) SetSelections(selections []outline.Selection) {
	if len(selections) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selections = slices.Clone(selections)
}

// SetCursor collapses the selections into a single cursor.
func (b *Buffer) SetCursor(p outline.Position) {
	b.SetSelections([]outline.Selection{outline.NewCursorSelection(p)})
}

// Folds

// GetAllFoldedLines returns the folded lines in ascending order.
func (b *Buffer) GetAllFoldedLines() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]int, 0, len(b.folds))
	for l := range b.folds {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Fold marks line as the first line of a folded range.
func (b *Buffer) Fold(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if line >= 0 && line < len(b.lines) {
		b.folds[line] = struct{}{}
	}
}

// Unfold removes the fold starting at line.
func (b *Buffer) Unfold(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.folds, line)
}

// IsFolded returns true if a fold starts at line.
func (b *Buffer) IsFolded(line int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.folds[line]
	return ok
}

// Write Operations

// ReplaceRange replaces the text between from and to. The change is reported
// to the buffer's recorder, if any.
func (b *Buffer) ReplaceRange(text string, from, to outline.Position) error {
	b.mu.Lock()
	if err := b.checkRange(from, to); err != nil {
		b.mu.Unlock()
		return err
	}
	change := Change{
		From:             from,
		OldText:          b.rangeLocked(from, to),
		NewText:          normalizeLineEndings(text),
		SelectionsBefore: slices.Clone(b.selections),
	}
	b.applyLocked(change)
	recorder := b.recorder
	b.mu.Unlock()

	if recorder != nil {
		recorder.Record(change)
	}
	return nil
}

// Insert inserts text at p and moves the cursor after it.
func (b *Buffer) Insert(p outline.Position, text string) error {
	if err := b.ReplaceRange(text, p, p); err != nil {
		return err
	}
	b.SetCursor(endOf(p, normalizeLineEndings(text)))
	return nil
}

// Apply applies a change without recording it. The buffer must still hold
// the change's old text at its position.
func (b *Buffer) Apply(change Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	to := change.OldEnd()
	if err := b.checkRange(change.From, to); err != nil {
		return err
	}
	if b.rangeLocked(change.From, to) != change.OldText {
		return ErrStaleChange
	}
	b.applyLocked(change)
	return nil
}

// applyLocked splices the change into the lines and keeps folds attached to
// the lines they were on.
func (b *Buffer) applyLocked(change Change) {
	from, to := change.From, change.OldEnd()
	spliced := strings.Split(b.lines[from.Line][:from.Column]+change.NewText+b.lines[to.Line][to.Column:], "\n")

	lines := make([]string, 0, len(b.lines)-(to.Line-from.Line)+len(spliced)-1)
	lines = append(lines, b.lines[:from.Line]...)
	lines = append(lines, spliced...)
	lines = append(lines, b.lines[to.Line+1:]...)
	b.lines = lines

	delta := (len(spliced) - 1) - (to.Line - from.Line)
	folds := make(map[int]struct{}, len(b.folds))
	for l := range b.folds {
		switch {
		case l <= from.Line:
			folds[l] = struct{}{}
		case l > to.Line:
			folds[l+delta] = struct{}{}
		}
	}
	b.folds = folds
	b.revisionID = NewRevisionID()
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetRecorder replaces the recorder notified of every ReplaceRange.
func (b *Buffer) SetRecorder(r Recorder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recorder = r
}

// Snapshot returns a read-only copy of the current buffer state.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	folded := make([]int, 0, len(b.folds))
	for l := range b.folds {
		folded = append(folded, l)
	}
	slices.Sort(folded)
	return &Snapshot{
		lines:      slices.Clone(b.lines),
		selections: slices.Clone(b.selections),
		folded:     folded,
		revisionID: b.revisionID,
	}
}

var _ outline.Editor = (*Buffer)(nil)
