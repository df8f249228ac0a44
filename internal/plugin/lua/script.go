package lua

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/engine/history"
	"github.com/dshills/outliner/internal/logging"
	"github.com/dshills/outliner/internal/outline"
)

// Report summarizes a successful script run.
type Report struct {
	Performed int
	Updated   bool
}

// Runner runs scripts against buffers through a dispatcher.
type Runner struct {
	dispatcher *dispatcher.Dispatcher
	history    *history.History
	logger     *logging.Logger
	timeout    time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHistory makes a successful script a single undo step.
func WithHistory(h *history.History) RunnerOption {
	return func(r *Runner) { r.history = h }
}

// WithLogger sets the logger receiving print output.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithTimeout sets the deadline of each run.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// NewRunner creates a runner.
func NewRunner(d *dispatcher.Dispatcher, opts ...RunnerOption) *Runner {
	r := &Runner{
		dispatcher: d,
		logger:     logging.Nop(),
		timeout:    DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("lua")
	return r
}

// RunFile runs the script at path.
func (r *Runner) RunFile(ctx context.Context, buf *buffer.Buffer, path string) (Report, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	return r.Run(ctx, buf, filepath.Base(path), string(code))
}

// Run runs code against buf in a fresh state. A successful run is one undo
// step. On failure the buffer text and selections are restored, nothing is
// added to the history and a *ScriptError is returned.
func (r *Runner) Run(ctx context.Context, buf *buffer.Buffer, name, code string) (Report, error) {
	state := NewState(
		WithExecutionTimeout(r.timeout),
		WithPrint(func(s string) { r.logger.Info("%s", s) }),
	)
	defer state.Close()

	a := &api{dispatcher: r.dispatcher, buf: buf}
	state.RegisterModule(ModuleName, a.funcs())

	snap := buf.Snapshot()
	if r.history != nil {
		r.history.BeginGroup("script " + name)
	}

	err := state.DoString(ctx, name, code)
	if err == nil {
		if r.history != nil {
			r.history.EndGroup()
		}
		r.logger.Debug("%s: %d actions, updated=%t", name, a.performed, a.updated)
		return Report{Performed: a.performed, Updated: a.updated}, nil
	}

	r.logger.Warn("%s failed: %v", name, err)
	if rerr := restore(buf, snap); rerr != nil {
		r.logger.Error("rollback %s: %v", name, rerr)
	}
	if r.history != nil {
		r.history.CancelGroup()
	}
	return Report{}, &ScriptError{Name: name, Err: err}
}

// restore puts back the text and selections of snap.
func restore(buf *buffer.Buffer, snap *buffer.Snapshot) error {
	if buf.RevisionID() != snap.RevisionID() {
		last := buf.LastLine()
		end := outline.Pos(last, len(buf.GetLine(last)))
		if err := buf.ReplaceRange(snap.Text(), outline.Pos(0, 0), end); err != nil {
			return err
		}
	}
	buf.SetSelections(snap.ListSelections())
	return nil
}
