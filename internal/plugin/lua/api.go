package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/outliner/internal/dispatcher"
	"github.com/dshills/outliner/internal/engine/buffer"
	"github.com/dshills/outliner/internal/outline"
	"github.com/dshills/outliner/internal/outline/ops"
)

// ModuleName is the global table scripts use.
const ModuleName = "outliner"

// api binds the outliner module to one buffer.
type api struct {
	dispatcher *dispatcher.Dispatcher
	buf        *buffer.Buffer
	performed  int
	updated    bool
}

func (a *api) funcs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"perform": a.perform,
		"cursor":  a.cursor,
		"select":  a.selectRange,
		"text":    a.text,
		"line":    a.line,
		"lines":   a.lines,
		"actions": a.actions,
		"move":    a.move,
		"zoom":    a.zoom,
	}
}

// perform(action) -> handled, updated
func (a *api) perform(L *lua.LState) int {
	action := L.CheckString(1)
	res, err := a.dispatcher.Dispatch(action, a.buf)
	if err != nil {
		L.RaiseError("%s: %v", action, err)
		return 0
	}
	a.performed++
	a.updated = a.updated || res.ShouldUpdate
	L.Push(lua.LBool(res.Handled))
	L.Push(lua.LBool(res.ShouldUpdate))
	return 2
}

// cursor() -> line, column; cursor(line, column) moves the cursor.
func (a *api) cursor(L *lua.LState) int {
	if L.GetTop() == 0 {
		p := a.buf.GetCursor()
		L.Push(lua.LNumber(p.Line + 1))
		L.Push(lua.LNumber(p.Column + 1))
		return 2
	}
	a.buf.SetCursor(a.checkPosition(L, 1))
	return 0
}

// select(anchorLine, anchorColumn, headLine, headColumn)
func (a *api) selectRange(L *lua.LState) int {
	anchor := a.checkPosition(L, 1)
	head := a.checkPosition(L, 3)
	a.buf.SetSelections([]outline.Selection{outline.NewSelection(anchor, head)})
	return 0
}

func (a *api) text(L *lua.LState) int {
	L.Push(lua.LString(a.buf.Text()))
	return 1
}

func (a *api) line(L *lua.LState) int {
	n := a.checkLine(L, 1)
	L.Push(lua.LString(a.buf.GetLine(n)))
	return 1
}

func (a *api) lines(L *lua.LState) int {
	L.Push(lua.LNumber(a.buf.LineCount()))
	return 1
}

func (a *api) actions(L *lua.LState) int {
	t := L.NewTable()
	for _, name := range a.dispatcher.Actions() {
		t.Append(lua.LString(name))
	}
	L.Push(t)
	return 1
}

// move(fromLine, toLine, where) -> updated
func (a *api) move(L *lua.LState) int {
	from := a.checkLine(L, 1)
	to := a.checkLine(L, 2)
	where := ops.Placement(L.OptString(3, string(ops.After)))
	if !where.Valid() {
		L.ArgError(3, "invalid placement")
		return 0
	}

	id, err := a.dispatcher.BeginMove(a.buf, from)
	if err != nil {
		L.RaiseError("move: %v", err)
		return 0
	}
	res, err := a.dispatcher.CommitMove(a.buf, id, to, where)
	if err != nil {
		L.RaiseError("move: %v", err)
		return 0
	}
	a.performed++
	a.updated = a.updated || res.ShouldUpdate
	L.Push(lua.LBool(res.ShouldUpdate))
	return 1
}

// zoom(line) marks the item on line as zoomed into; zoom() clears it.
// Enter on the zoomed item creates a child instead of a sibling.
func (a *api) zoom(L *lua.LState) int {
	if L.GetTop() == 0 {
		a.dispatcher.SetZoomLine(ops.NoZoom)
		return 0
	}
	a.dispatcher.SetZoomLine(a.checkLine(L, 1))
	return 0
}

// checkLine reads a 1-based line argument and returns the 0-based index.
func (a *api) checkLine(L *lua.LState, n int) int {
	line := L.CheckInt(n)
	if line < 1 || line > a.buf.LineCount() {
		L.ArgError(n, "line out of range")
	}
	return line - 1
}

// checkPosition reads 1-based line and column arguments at n and n+1.
func (a *api) checkPosition(L *lua.LState, n int) outline.Position {
	line := a.checkLine(L, n)
	col := L.CheckInt(n + 1)
	if col < 1 || col > len(a.buf.GetLine(line))+1 {
		L.ArgError(n+1, "column out of range")
	}
	return outline.Pos(line, col-1)
}
