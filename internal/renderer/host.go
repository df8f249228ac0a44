package renderer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/engine/history"
	"github.com/dshills/outliner/internal/logging"
	"github.com/dshills/outliner/internal/outline"
)

// SaveFunc writes the buffer to its backing store.
type SaveFunc func(buf *buffer.Buffer) error

// Option configures a Host.
type Option func(*Host)

// WithHistory enables undo and redo.
func WithHistory(h *history.History) Option {
	return func(host *Host) { host.history = h }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(host *Host) {
		if l != nil {
			host.logger = l
		}
	}
}

// WithSaver sets the function Ctrl-S calls.
func WithSaver(fn SaveFunc) Option {
	return func(host *Host) { host.save = fn }
}

// WithName sets the name shown in the status line.
func WithName(name string) Option {
	return func(host *Host) { host.name = name }
}

// WithTheme sets the styles.
func WithTheme(t Theme) Option {
	return func(host *Host) { host.theme = t }
}

// WithKeymap replaces the default key bindings.
func WithKeymap(km *Keymap) Option {
	return func(host *Host) {
		if km != nil {
			host.keymap = km
		}
	}
}

// WithTabWidth sets the display width of a tab.
func WithTabWidth(n int) Option {
	return func(host *Host) {
		if n > 0 {
			host.tabWidth = n
		}
	}
}

// WithLineNumbers shows a line number gutter.
func WithLineNumbers(show bool) Option {
	return func(host *Host) { host.lineNumbers = show }
}

// Host runs an interactive editing session on a tcell screen.
//
// A Host is driven from a single goroutine: Run, or HandleEvent and Draw in
// tests. Notify may be called from any goroutine.
type Host struct {
	screen     tcell.Screen
	buf        *buffer.Buffer
	dispatcher *dispatcher.Dispatcher
	history    *history.History
	keymap     *Keymap
	theme      Theme
	logger     *logging.Logger
	save       SaveFunc

	name        string
	tabWidth    int
	lineNumbers bool

	top, left int
	// goal is the display column vertical movement tries to keep, or -1.
	goal     int
	followUp []string

	status      string
	statusError bool
	saved       buffer.RevisionID
	quit        bool
}

// NewHost creates a host editing buf.
func NewHost(screen tcell.Screen, buf *buffer.Buffer, d *dispatcher.Dispatcher, opts ...Option) *Host {
	h := &Host{
		screen:     screen,
		buf:        buf,
		dispatcher: d,
		keymap:     DefaultKeymap(),
		theme:      DefaultTheme(),
		logger:     logging.Nop(),
		name:       "[scratch]",
		tabWidth:   DefaultTabWidth,
		goal:       -1,
		saved:      buf.RevisionID(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.WithComponent("renderer")
	return h
}

// Run initializes the screen and processes events until quit is requested
// or ctx is done. The screen is finalized on return.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer h.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	h.Draw()
	for !h.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			h.HandleEvent(ev)
			h.Draw()
		}
	}
	return nil
}

// Notify shows msg in the status line. It is safe to call from any goroutine
// while Run is active.
func (h *Host) Notify(msg string) {
	_ = h.screen.PostEvent(tcell.NewEventInterrupt(msg)) // best-effort; queue may be full
}

// Quit reports whether quit has been requested.
func (h *Host) Quit() bool {
	return h.quit
}

// Modified reports whether the buffer changed since it was last saved.
func (h *Host) Modified() bool {
	return h.buf.RevisionID() != h.saved
}

// Status returns the status message.
func (h *Host) Status() string {
	return h.status
}

// HandleEvent processes one event.
func (h *Host) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		h.handleKey(ev)
	case *tcell.EventResize:
		h.screen.Sync()
	case *tcell.EventInterrupt:
		if msg, ok := ev.Data().(string); ok {
			h.setStatus(msg)
		}
	}
}

func (h *Host) handleKey(ev *tcell.EventKey) {
	h.setStatus("")
	cmd, ok := h.keymap.Lookup(ev)
	if !ok {
		if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) == 0 {
			h.insertText(string(ev.Rune()))
		}
		return
	}

	if cmd.Builtin != BuiltinUp && cmd.Builtin != BuiltinDown &&
		cmd.Builtin != BuiltinPageUp && cmd.Builtin != BuiltinPageDown {
		h.goal = -1
	}

	if cmd.Action != "" {
		res, err := h.dispatcher.Dispatch(cmd.Action, h.buf)
		if err != nil {
			h.setError(err)
			return
		}
		if res.ShouldStopPropagation {
			return
		}
	}

	h.runBuiltin(cmd.Builtin)
	if cmd.Builtin.movesCursor() {
		h.schedule(dispatcher.ActionClampCursor)
	}
	h.runFollowUps()
}

// schedule queues an action to run once the current key is handled.
func (h *Host) schedule(action string) {
	h.followUp = append(h.followUp, action)
}

func (h *Host) runFollowUps() {
	queue := h.followUp
	h.followUp = nil
	for _, action := range queue {
		if _, err := h.dispatcher.Dispatch(action, h.buf); err != nil {
			h.logger.Debug("follow-up %s: %v", action, err)
		}
	}
}

func (h *Host) runBuiltin(b Builtin) {
	switch b {
	case BuiltinInsertTab:
		h.insertText("\t")
	case BuiltinNewline:
		h.insertText("\n")
	case BuiltinBackspace:
		h.deleteBackward()
	case BuiltinDelete:
		h.deleteForward()
	case BuiltinDeleteToLineStart:
		p := h.buf.GetCursor()
		h.replace("", outline.Pos(p.Line, 0), p)
	case BuiltinSelectAll:
		last := h.buf.LastLine()
		h.buf.SetSelections([]outline.Selection{
			outline.NewSelection(outline.Pos(0, 0), outline.Pos(last, len(h.buf.GetLine(last)))),
		})
	case BuiltinLeft:
		h.moveLeft()
	case BuiltinRight:
		h.moveRight()
	case BuiltinUp:
		h.moveVertical(-1)
	case BuiltinDown:
		h.moveVertical(1)
	case BuiltinPageUp:
		h.moveVertical(-h.pageRows())
	case BuiltinPageDown:
		h.moveVertical(h.pageRows())
	case BuiltinHome:
		p := h.buf.GetCursor()
		h.buf.SetCursor(outline.Pos(p.Line, 0))
	case BuiltinEnd:
		p := h.buf.GetCursor()
		h.buf.SetCursor(outline.Pos(p.Line, len(h.buf.GetLine(p.Line))))
	case BuiltinUndo:
		h.undo()
	case BuiltinRedo:
		h.redo()
	case BuiltinSave:
		h.Save()
	case BuiltinQuit:
		h.quit = true
	}
}

// Save writes the buffer with the configured SaveFunc.
func (h *Host) Save() {
	if h.save == nil {
		h.setStatus("no file to save to")
		return
	}
	if err := h.save(h.buf); err != nil {
		h.setError(err)
		return
	}
	h.saved = h.buf.RevisionID()
	h.setStatus("saved " + h.name)
}

func (h *Host) undo() {
	if h.history == nil {
		return
	}
	if err := h.history.Undo(h.buf); err != nil {
		if errors.Is(err, history.ErrNothingToUndo) {
			h.setStatus("nothing to undo")
			return
		}
		h.setError(err)
	}
}

func (h *Host) redo() {
	if h.history == nil {
		return
	}
	if err := h.history.Redo(h.buf); err != nil {
		if errors.Is(err, history.ErrNothingToRedo) {
			h.setStatus("nothing to redo")
			return
		}
		h.setError(err)
	}
}

// Plain editing

// selectionRange returns the range of the primary selection.
func (h *Host) selectionRange() (outline.Position, outline.Position) {
	sels := h.buf.ListSelections()
	s := sels[len(sels)-1]
	return s.From(), s.To()
}

// replace replaces from..to with text and puts the cursor after it.
func (h *Host) replace(text string, from, to outline.Position) {
	if err := h.buf.ReplaceRange(text, from, to); err != nil {
		h.setError(err)
		return
	}
	h.buf.SetCursor(endOf(from, text))
}

func (h *Host) insertText(text string) {
	from, to := h.selectionRange()
	h.replace(text, from, to)
}

func (h *Host) deleteBackward() {
	from, to := h.selectionRange()
	if from != to {
		h.replace("", from, to)
		return
	}
	switch {
	case to.Column > 0:
		from = outline.Pos(to.Line, prevRune(h.buf.GetLine(to.Line), to.Column))
	case to.Line > 0:
		from = outline.Pos(to.Line-1, len(h.buf.GetLine(to.Line-1)))
	default:
		return
	}
	h.replace("", from, to)
}

func (h *Host) deleteForward() {
	from, to := h.selectionRange()
	if from != to {
		h.replace("", from, to)
		return
	}
	text := h.buf.GetLine(from.Line)
	switch {
	case from.Column < len(text):
		to = outline.Pos(from.Line, nextRune(text, from.Column))
	case from.Line < h.buf.LastLine():
		to = outline.Pos(from.Line+1, 0)
	default:
		return
	}
	h.replace("", from, to)
}

// Cursor movement

func (h *Host) moveLeft() {
	from, to := h.selectionRange()
	if from != to {
		h.buf.SetCursor(from)
		return
	}
	switch {
	case from.Column > 0:
		h.buf.SetCursor(outline.Pos(from.Line, prevRune(h.buf.GetLine(from.Line), from.Column)))
	case from.Line > 0:
		prev := h.visibleNeighbour(from.Line, -1)
		h.buf.SetCursor(outline.Pos(prev, len(h.buf.GetLine(prev))))
	}
}

func (h *Host) moveRight() {
	from, to := h.selectionRange()
	if from != to {
		h.buf.SetCursor(to)
		return
	}
	text := h.buf.GetLine(to.Line)
	switch {
	case to.Column < len(text):
		h.buf.SetCursor(outline.Pos(to.Line, nextRune(text, to.Column)))
	case to.Line < h.buf.LastLine():
		next := h.visibleNeighbour(to.Line, 1)
		if next != to.Line {
			h.buf.SetCursor(outline.Pos(next, 0))
		}
	}
}

// moveVertical moves the cursor by delta visible lines, keeping the goal
// display column.
func (h *Host) moveVertical(delta int) {
	p := h.buf.GetCursor()
	if h.goal < 0 {
		h.goal = CellColumn(h.buf.GetLine(p.Line), p.Column, h.tabWidth)
	}
	visible := VisibleLines(h.buf)
	row := clamp(visibleRow(visible, p.Line)+delta, 0, len(visible)-1)
	line := visible[row]
	h.buf.SetCursor(outline.Pos(line, ByteColumn(h.buf.GetLine(line), h.goal, h.tabWidth)))
}

// visibleNeighbour returns the nearest visible line before (dir -1) or after
// (dir 1) line, or line itself at the edges.
func (h *Host) visibleNeighbour(line, dir int) int {
	visible := VisibleLines(h.buf)
	row := clamp(visibleRow(visible, line)+dir, 0, len(visible)-1)
	return visible[row]
}

// visibleRow returns the row of line, or of the fold hiding it.
func visibleRow(visible []int, line int) int {
	row := 0
	for i, l := range visible {
		if l > line {
			break
		}
		row = i
	}
	return row
}

func (h *Host) pageRows() int {
	_, height := h.screen.Size()
	return max(height-2, 1)
}

func (h *Host) setStatus(msg string) {
	h.status = msg
	h.statusError = false
}

func (h *Host) setError(err error) {
	h.logger.Warn("%v", err)
	h.status = err.Error()
	h.statusError = true
}

// Drawing

// Draw renders the buffer, the cursor and the status line.
func (h *Host) Draw() {
	width, height := h.screen.Size()
	h.screen.Clear()
	if width <= 0 || height <= 0 {
		return
	}

	rows := max(height-1, 1)
	gutter := h.gutterWidth(width)
	textWidth := width - gutter

	visible := VisibleLines(h.buf)
	cursor := h.buf.GetCursor()
	cursorRow := visibleRow(visible, cursor.Line)
	cursorCell := CellColumn(h.buf.GetLine(cursor.Line), cursor.Column, h.tabWidth)
	h.scrollTo(cursorRow, cursorCell, rows, textWidth)

	sels := h.buf.ListSelections()
	for row := 0; row < rows && h.top+row < len(visible); row++ {
		line := visible[h.top+row]
		if gutter > 0 {
			h.drawGutter(line, row, gutter)
		}
		h.drawLine(line, row, gutter, textWidth, sels)
	}

	if height > 1 {
		h.drawStatus(height-1, width)
	}

	x := cursorCell - h.left + gutter
	if visible[cursorRow] == cursor.Line && x >= gutter && x < width {
		h.screen.ShowCursor(x, cursorRow-h.top)
	} else {
		h.screen.HideCursor()
	}
	h.screen.Show()
}

func (h *Host) scrollTo(row, cell, rows, textWidth int) {
	if row < h.top {
		h.top = row
	}
	if row >= h.top+rows {
		h.top = row - rows + 1
	}
	if cell < h.left {
		h.left = cell
	}
	if textWidth > 0 && cell >= h.left+textWidth {
		h.left = cell - textWidth + 1
	}
}

func (h *Host) gutterWidth(width int) int {
	if !h.lineNumbers {
		return 0
	}
	w := len(strconv.Itoa(h.buf.LineCount())) + 1
	if w >= width {
		return 0
	}
	return w
}

func (h *Host) drawGutter(line, row, gutter int) {
	num := strconv.Itoa(line + 1)
	x := gutter - 1 - len(num)
	for _, r := range num {
		h.screen.SetContent(x, row, r, nil, h.theme.Gutter)
		x++
	}
}

// drawLine draws one buffer line. Cells left of h.left are skipped.
func (h *Host) drawLine(line, row, gutter, textWidth int, sels []outline.Selection) {
	text := h.buf.GetLine(line)
	cell, offset := 0, 0
	for _, sp := range h.theme.spans(text) {
		for i, r := range sp.text {
			col := offset + i
			w := runeCells(r, cell, h.tabWidth)
			style := sp.style
			if selected(sels, outline.Pos(line, col)) {
				style = h.theme.Selection
			}
			h.putRune(r, cell, w, row, gutter, textWidth, style)
			cell += w
		}
		offset += len(sp.text)
	}
	if h.buf.IsFolded(line) && FoldEnd(h.buf, line) > line {
		h.putString(" …", cell, row, gutter, textWidth, h.theme.Fold)
	}
}

func (h *Host) putString(s string, cell, row, gutter, textWidth int, style tcell.Style) {
	for _, r := range s {
		w := runeCells(r, cell, h.tabWidth)
		h.putRune(r, cell, w, row, gutter, textWidth, style)
		cell += w
	}
}

func (h *Host) putRune(r rune, cell, w, row, gutter, textWidth int, style tcell.Style) {
	if w == 0 {
		return
	}
	x := cell - h.left
	if x < 0 || x+w > textWidth {
		return
	}
	switch {
	case r == '\t':
		for i := 0; i < w; i++ {
			h.screen.SetContent(gutter+x+i, row, ' ', nil, style)
		}
	case r < ' ' || r == 0x7f:
		h.screen.SetContent(gutter+x, row, '?', nil, style)
	default:
		h.screen.SetContent(gutter+x, row, r, nil, style)
	}
}

func (h *Host) drawStatus(row, width int) {
	style := h.theme.Status
	for x := 0; x < width; x++ {
		h.screen.SetContent(x, row, ' ', nil, style)
	}

	left := " " + h.name
	if h.Modified() {
		left += " [+]"
	}
	p := h.buf.GetCursor()
	right := fmt.Sprintf("%d:%d ", p.Line+1, p.Column+1)

	x := 0
	for _, r := range left {
		h.screen.SetContent(x, row, r, nil, style)
		x++
	}
	if h.status != "" {
		msgStyle := style
		if h.statusError {
			msgStyle = h.theme.Error
		}
		x += 2
		for _, r := range h.status {
			if x >= width-len(right) {
				break
			}
			h.screen.SetContent(x, row, r, nil, msgStyle)
			x++
		}
	}
	x = width - len(right)
	for _, r := range right {
		if x >= 0 {
			h.screen.SetContent(x, row, r, nil, style)
		}
		x++
	}
}

// selected reports whether the character at p lies inside a selection.
func selected(sels []outline.Selection, p outline.Position) bool {
	for _, s := range sels {
		if s.IsCursor() {
			continue
		}
		if s.From().Compare(p) <= 0 && p.Compare(s.To()) < 0 {
			return true
		}
	}
	return false
}

// endOf returns the position after text inserted at from.
func endOf(from outline.Position, text string) outline.Position {
	line, col := from.Line, from.Column
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return outline.Pos(line, col)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
