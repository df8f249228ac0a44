package dispatcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/outliner/internal/config"
	"github.com/dshills/outliner/internal/engine/history"
	"github.com/dshills/outliner/internal/logging"
	"github.com/dshills/outliner/internal/outline"
	"github.com/dshills/outliner/internal/outline/ops"
	"github.com/dshills/outliner/internal/outline/perform"
)

// Action names.
const (
	ActionIndent            = "outliner.indent"
	ActionOutdent           = "outliner.outdent"
	ActionMoveUp            = "outliner.moveUp"
	ActionMoveDown          = "outliner.moveDown"
	ActionEnter             = "outliner.enter"
	ActionNoteLine          = "outliner.noteLine"
	ActionBackspace         = "outliner.backspace"
	ActionDelete            = "outliner.delete"
	ActionDeleteToLineStart = "outliner.deleteToLineStart"
	ActionSelectAll         = "outliner.selectAll"
	ActionArrowLeft         = "outliner.arrowLeft"
	ActionClampCursor       = "outliner.clampCursor"
	ActionFold              = "outliner.fold"
	ActionUnfold            = "outliner.unfold"
	ActionToggleFold        = "outliner.toggleFold"
	ActionInsertAbove       = "outliner.insertAbove"
	ActionInsertBelow       = "outliner.insertBelow"
)

// Result reports how an action was handled.
type Result struct {
	// Handled is false when no outline was under the cursor or the action
	// is disabled; the host should run its default behaviour.
	Handled bool
	// ShouldUpdate is true if the buffer was written.
	ShouldUpdate bool
	// ShouldStopPropagation is true if the host must not run its default
	// behaviour.
	ShouldStopPropagation bool
}

func fromOps(r ops.Result) Result {
	return Result{
		Handled:               true,
		ShouldUpdate:          r.ShouldUpdate,
		ShouldStopPropagation: r.ShouldStopPropagation,
	}
}

// Editor is the host buffer an action runs against.
type Editor interface {
	outline.Editor
	// IsFolded reports whether a fold starts at line.
	IsFolded(line int) bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithHistory makes every dispatched action a single undo step.
func WithHistory(h *history.History) Option {
	return func(d *Dispatcher) { d.history = h }
}

// WithMetrics enables dispatch statistics.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// Dispatcher routes actions to outline operations.
type Dispatcher struct {
	mu        sync.RWMutex
	cfg       config.OutlinerConfig
	performer *perform.Performer
	mover     *perform.Mover
	zoomLine  int

	registry *Registry
	history  *history.History
	metrics  *Metrics
	logger   *logging.Logger
}

// New creates a dispatcher with the built-in outliner actions registered.
func New(cfg config.OutlinerConfig, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		zoomLine: ops.NoZoom,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dispatcher")
	d.SetConfig(cfg)
	d.registerDefaults()
	return d
}

// SetConfig replaces the outliner configuration. Pending moves are dropped.
func (d *Dispatcher) SetConfig(cfg config.OutlinerConfig) {
	p := perform.NewPerformer(cfg.KeepCursorWithinContent, perform.WithLogger(d.logger))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.performer = p
	d.mover = perform.NewMover(p, cfg.DefaultIndentChars)
}

// Config returns the current outliner configuration.
func (d *Dispatcher) Config() config.OutlinerConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// SetZoomLine records the first line of the zoomed item. Use ops.NoZoom
// when nothing is zoomed.
func (d *Dispatcher) SetZoomLine(line int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.zoomLine = line
}

// ZoomLine returns the first line of the zoomed item, or ops.NoZoom.
func (d *Dispatcher) ZoomLine() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.zoomLine
}

// Registry returns the action registry. Hosts may register additional
// actions on it.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Actions returns the registered action names.
func (d *Dispatcher) Actions() []string {
	return d.registry.List()
}

// Metrics returns the metrics collector, or nil.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

func (d *Dispatcher) state() (config.OutlinerConfig, *perform.Performer, int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg, d.performer, d.zoomLine
}

// Dispatch runs action against ed.
func (d *Dispatcher) Dispatch(action string, ed Editor) (Result, error) {
	e, ok := d.registry.get(action)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNoHandler, action)
	}
	cfg, _, _ := d.state()
	if !e.gate(cfg) {
		d.logger.Debug("%s disabled", action)
		return Result{}, nil
	}

	if d.history != nil && !d.history.IsGrouping() {
		defer d.history.GroupScope(action).End()
	}

	start := time.Now()
	res, err := e.handler(ed)
	if d.metrics != nil {
		d.metrics.RecordDispatch(action, time.Since(start), res, err)
	}
	if err != nil {
		d.logger.WithField("action", action).Error("%v", err)
		return res, err
	}
	d.logger.WithField("action", action).Debug("handled=%t update=%t stop=%t",
		res.Handled, res.ShouldUpdate, res.ShouldStopPropagation)
	return res, nil
}

func (d *Dispatcher) registerDefaults() {
	single := func(build func(cfg config.OutlinerConfig, zoom int) ops.Operation) Handler {
		return func(ed Editor) (Result, error) {
			cfg, p, zoom := d.state()
			root := p.Parse(ed, ed.GetCursor())
			if root == nil {
				return Result{}, nil
			}
			res, err := p.Eval(root, build(cfg, zoom), ed)
			return fromOps(res), err
		}
	}
	fixed := func(op func() ops.Operation) Handler {
		return single(func(config.OutlinerConfig, int) ops.Operation { return op() })
	}

	r := d.registry
	r.Register(ActionIndent, single(func(cfg config.OutlinerConfig, _ int) ops.Operation {
		return ops.Indent(cfg.DefaultIndentChars)
	}), tabEnabled)
	r.Register(ActionOutdent, fixed(ops.Outdent), tabEnabled)
	r.Register(ActionMoveUp, fixed(ops.MoveUp), Always)
	r.Register(ActionMoveDown, fixed(ops.MoveDown), Always)
	r.Register(ActionEnter, d.enter, enterEnabled)
	r.Register(ActionNoteLine, fixed(ops.CreateNoteLine), enterEnabled)
	r.Register(ActionBackspace, fixed(ops.DeleteBackward), Always)
	r.Register(ActionDelete, fixed(ops.DeleteForward), Always)
	r.Register(ActionDeleteToLineStart, fixed(ops.TruncateToLineStart), Always)
	r.Register(ActionSelectAll, fixed(ops.SelectContent), selectAllEnabled)
	r.Register(ActionArrowLeft, fixed(ops.PreviousUnfoldedLine), Always)
	r.Register(ActionClampCursor, d.clampCursor, clampEnabled)
	r.Register(ActionFold, d.foldHandler(foldOnly), Always)
	r.Register(ActionUnfold, d.foldHandler(unfoldOnly), Always)
	r.Register(ActionToggleFold, d.foldHandler(toggle), Always)
	r.Register(ActionInsertAbove, fixed(ops.InsertAbove), vimOEnabled)
	r.Register(ActionInsertBelow, fixed(ops.InsertBelow), vimOEnabled)
}

// enter outdents an empty nested item; otherwise it splits the item at the
// cursor.
func (d *Dispatcher) enter(ed Editor) (Result, error) {
	cfg, p, zoom := d.state()
	root := p.Parse(ed, ed.GetCursor())
	if root == nil {
		return Result{}, nil
	}
	res, err := p.Eval(root, ops.OutdentIfEmpty(), ed)
	if err != nil || res.ShouldStopPropagation {
		return fromOps(res), err
	}
	res, err = p.Eval(root, ops.CreateNewItem(cfg.DefaultIndentChars, zoom), ed)
	return fromOps(res), err
}

// clampCursor moves the cursor out of folded ranges, then past the bullet.
func (d *Dispatcher) clampCursor(ed Editor) (Result, error) {
	_, p, _ := d.state()
	root := p.Parse(ed, ed.GetCursor())
	if root == nil {
		return Result{}, nil
	}
	res, err := p.Eval(root, ops.ClampOutsideFold(), ed)
	if err != nil || res.ShouldStopPropagation {
		return fromOps(res), err
	}
	res, err = p.Eval(root, ops.ClampWithinContent(), ed)
	return fromOps(res), err
}

type foldMode uint8

const (
	foldOnly foldMode = iota
	unfoldOnly
	toggle
)

// foldHandler folds or unfolds the item under the cursor. Items without
// children or notes cannot be folded.
func (d *Dispatcher) foldHandler(mode foldMode) Handler {
	return func(ed Editor) (Result, error) {
		_, p, _ := d.state()
		root := p.Parse(ed, ed.GetCursor())
		if root == nil {
			return Result{}, nil
		}
		list := root.ListUnderCursor()
		if list == nil {
			return Result{}, nil
		}
		line := list.FirstLineContentStart().Line
		folded := ed.IsFolded(line)

		fold := !folded
		switch mode {
		case foldOnly:
			fold = true
		case unfoldOnly:
			fold = false
		}

		switch {
		case fold && !folded && (list.HasChildren() || list.LineCount() > 1):
			ed.Fold(line)
			if _, err := p.Perform(ed, ops.ClampOutsideFold()); err != nil {
				return Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true}, err
			}
		case !fold && folded:
			ed.Unfold(line)
		default:
			return Result{Handled: true, ShouldStopPropagation: true}, nil
		}
		return Result{Handled: true, ShouldUpdate: true, ShouldStopPropagation: true}, nil
	}
}

// BeginMove starts a deferred move of the item owning line.
func (d *Dispatcher) BeginMove(ed Editor, line int) (uuid.UUID, error) {
	d.mu.RLock()
	cfg, mover := d.cfg, d.mover
	d.mu.RUnlock()
	if !dragEnabled(cfg) {
		return uuid.Nil, ErrFeatureDisabled
	}
	return mover.Begin(ed, line)
}

// CommitMove finishes a deferred move started by BeginMove.
func (d *Dispatcher) CommitMove(ed Editor, id uuid.UUID, targetLine int, where ops.Placement) (Result, error) {
	if !where.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidPlacement, where)
	}
	d.mu.RLock()
	cfg, mover := d.cfg, d.mover
	d.mu.RUnlock()
	if !dragEnabled(cfg) {
		return Result{}, ErrFeatureDisabled
	}

	if d.history != nil && !d.history.IsGrouping() {
		defer d.history.GroupScope("outliner.move").End()
	}
	res, err := mover.Commit(ed, id, targetLine, where)
	if err != nil {
		return Result{}, err
	}
	return fromOps(res), nil
}

// CancelMove abandons a deferred move.
func (d *Dispatcher) CancelMove(id uuid.UUID) error {
	d.mu.RLock()
	mover := d.mover
	d.mu.RUnlock()
	return mover.Cancel(id)
}
