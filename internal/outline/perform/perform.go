// Package perform runs outline operations against a host buffer: parse the
// region around the cursor, run the operation on the tree and write the
// result back through the patch engine.
package perform

import (
	"errors"
	"fmt"

	"github.com/dshills/outliner/internal/logging"
	"github.com/dshills/outliner/internal/outline"
	"github.com/dshills/outliner/internal/outline/ops"
	"github.com/dshills/outliner/internal/outline/patch"
)

// ErrStructuralInvariant wraps the invariant violation that aborted an
// operation. The buffer is left untouched when it is returned.
var ErrStructuralInvariant = errors.New("structural invariant violated")

// Performer parses, runs and applies operations.
type Performer struct {
	parser     *outline.Parser
	applicator *patch.ChangesApplicator
	logger     *logging.Logger
}

// Option configures a Performer.
type Option func(*Performer)

// WithLogger sets the logger. Parse failures are logged at warn level and
// applied patches at debug level.
func WithLogger(l *logging.Logger) Option {
	return func(p *Performer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPerformer creates a performer parsing with the given cursor mode.
func NewPerformer(mode outline.CursorMode, opts ...Option) *Performer {
	p := &Performer{
		parser:     outline.NewParser(mode),
		applicator: patch.NewChangesApplicator(),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses the outline region containing cursor. A region that is
// missing or malformed yields nil; malformed regions are logged.
func (p *Performer) Parse(r outline.Reader, cursor outline.Position) *outline.Root {
	root, err := p.parser.Parse(r, cursor)
	if err != nil {
		p.logger.WithComponent("parser").Warn("%v", err)
		return nil
	}
	return root
}

// Perform runs op on the outline under the editor's cursor.
func (p *Performer) Perform(editor outline.Editor, op ops.Operation) (ops.Result, error) {
	return p.PerformAt(editor, op, editor.GetCursor())
}

// PerformAt runs op on the outline containing cursor. The zero Result is
// returned when the cursor is not inside a well-formed outline.
func (p *Performer) PerformAt(editor outline.Editor, op ops.Operation, cursor outline.Position) (ops.Result, error) {
	root := p.Parse(editor, cursor)
	if root == nil {
		return ops.Result{}, nil
	}
	return p.Eval(root, op, editor)
}

// Eval runs op against an already parsed root and writes the result back
// when the operation reports a change. Several operations can be chained on
// one root; each call snapshots the tree it starts from.
func (p *Performer) Eval(root *outline.Root, op ops.Operation, editor outline.Editor) (ops.Result, error) {
	before := root.Clone()

	res, err := run(op, root)
	if err != nil {
		p.logger.WithComponent("ops").Error("%v", err)
		return ops.Result{}, err
	}
	if !res.ShouldUpdate {
		return res, nil
	}

	applied, err := p.applicator.Apply(editor, before, root)
	if err != nil {
		return res, fmt.Errorf("write outline: %w", err)
	}
	root.SyncBounds()
	p.logger.WithComponent("patch").Debug("%s", applied)
	return res, nil
}

// run calls op and turns an invariant panic into an error. Other panics are
// not ours to handle.
func run(op ops.Operation, root *outline.Root) (res ops.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !isInvariant(e) {
				panic(r)
			}
			err = fmt.Errorf("%w: %w", ErrStructuralInvariant, e)
		}
	}()
	return op(root), nil
}

func isInvariant(err error) bool {
	return errors.Is(err, outline.ErrNotesIndentAlreadySet) ||
		errors.Is(err, outline.ErrNotesIndentMissing) ||
		errors.Is(err, outline.ErrEmptySelections)
}
