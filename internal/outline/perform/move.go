package perform

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/outliner/internal/outline"
	"github.com/dshills/outliner/internal/outline/ops"
)

// Errors returned by deferred moves.
var (
	// ErrConcurrentBufferChange indicates the outline changed between Begin and Commit.
	ErrConcurrentBufferChange = errors.New("outline changed while the move was pending")

	// ErrNoPendingMove indicates Commit or Cancel was called with an unknown id.
	ErrNoPendingMove = errors.New("no pending move")

	// ErrMoveNotFound indicates the source or target line is not inside an outline item.
	ErrMoveNotFound = errors.New("no outline item at line")
)

// pendingMove is the snapshot taken when a move starts.
type pendingMove struct {
	line    int
	start   outline.Position
	printed string
}

// Mover runs moves whose target is chosen after the source, such as a drag
// and drop. Begin records the outline as printed; Commit refuses to move when
// the outline no longer prints the same.
type Mover struct {
	performer     *Performer
	defaultIndent string

	mu      sync.Mutex
	pending map[uuid.UUID]pendingMove
}

// NewMover creates a mover. defaultIndent is used when an item is moved
// inside a childless target.
func NewMover(p *Performer, defaultIndent string) *Mover {
	return &Mover{
		performer:     p,
		defaultIndent: defaultIndent,
		pending:       make(map[uuid.UUID]pendingMove),
	}
}

// Begin starts moving the item owning line.
func (m *Mover) Begin(r outline.Reader, line int) (uuid.UUID, error) {
	root := m.performer.Parse(r, outline.Pos(line, 0))
	if root == nil || root.ListUnderLine(line) == nil {
		return uuid.Nil, ErrMoveNotFound
	}

	id := uuid.New()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[id] = pendingMove{
		line:    line,
		start:   root.ContentStart(),
		printed: root.Print(),
	}
	m.performer.logger.WithComponent("move").WithField("id", id).Debug("begin at line %d", line)
	return id, nil
}

// Commit moves the item recorded by Begin before, after or inside the item
// owning targetLine. The pending move is consumed whatever the outcome.
func (m *Mover) Commit(editor outline.Editor, id uuid.UUID, targetLine int, where ops.Placement) (ops.Result, error) {
	m.mu.Lock()
	pm, ok := m.pending[id]
	delete(m.pending, id)
	m.mu.Unlock()
	if !ok {
		return ops.Result{}, ErrNoPendingMove
	}

	log := m.performer.logger.WithComponent("move").WithField("id", id)
	root := m.performer.Parse(editor, outline.Pos(pm.line, 0))
	if root == nil || root.ContentStart() != pm.start || root.Print() != pm.printed {
		log.Warn("aborted: %v", ErrConcurrentBufferChange)
		return ops.Result{}, ErrConcurrentBufferChange
	}
	if root.ListUnderLine(targetLine) == nil {
		return ops.Result{}, ErrMoveNotFound
	}

	res, err := m.performer.Eval(root, ops.MoveToPosition(pm.line, targetLine, where, m.defaultIndent), editor)
	if err == nil {
		log.Debug("committed to line %d (%s)", targetLine, where)
	}
	return res, err
}

// Cancel drops a pending move.
func (m *Mover) Cancel(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[id]; !ok {
		return ErrNoPendingMove
	}
	delete(m.pending, id)
	return nil
}

// Pending returns the number of moves waiting for a commit.
func (m *Mover) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
