package outline

import "strings"

// Root is one parsed outline region: an arena of List nodes hanging off a
// synthetic root list, the document bounds of the region and the selections
// that were active when it was parsed.
//
// A Root is built fresh for every command and never shared between goroutines.
type Root struct {
	start Position
	end   Position

	selections []Selection

	nodes    map[ID]*List
	nextID   ID
	rootList ID
}

// NewRoot creates an empty outline for the region [start, end].
// It panics with ErrEmptySelections if selections is empty.
func NewRoot(start, end Position, selections []Selection) *Root {
	r := &Root{
		start: start,
		end:   end,
		nodes: make(map[ID]*List),
	}
	r.ReplaceSelections(selections)
	r.rootList = r.NewList("", "", "", "", "", false).id
	r.nodes[r.rootList].lines = nil
	return r
}

// NewList creates a detached node owned by this root.
func (r *Root) NewList(indent, bullet, checkbox, spaceAfterBullet, firstLine string, foldRoot bool) *List {
	l := &List{
		root:             r,
		id:               r.nextID,
		indent:           indent,
		bullet:           bullet,
		checkbox:         checkbox,
		spaceAfterBullet: spaceAfterBullet,
		lines:            []string{firstLine},
		parent:           noID,
		foldRoot:         foldRoot,
	}
	r.nextID++
	r.nodes[l.id] = l
	return l
}

// release drops a detached node from the arena.
func (r *Root) release(l *List) {
	if l.parent == noID && l.id != r.rootList {
		delete(r.nodes, l.id)
	}
}

// Release drops a node that has been removed from the tree. Its children
// must have been moved elsewhere first.
func (r *Root) Release(l *List) {
	r.release(l)
}

// RootList returns the synthetic list whose children are the top-level items.
func (r *Root) RootList() *List {
	return r.nodes[r.rootList]
}

// Children returns the top-level items.
func (r *Root) Children() []*List {
	return r.RootList().Children()
}

// ListByID returns the attached or detached node with the given id.
func (r *Root) ListByID(id ID) *List {
	return r.nodes[id]
}

// ContentStart returns the start of the region.
func (r *Root) ContentStart() Position {
	return r.start
}

// ContentEnd returns the end of the region.
func (r *Root) ContentEnd() Position {
	return r.end
}

// ContentRange returns the region bounds.
func (r *Root) ContentRange() (Position, Position) {
	return r.start, r.end
}

// SyncBounds moves the region end to the end of the printed tree. Call it
// once the printed tree has been written back, before running another
// operation on the same root.
func (r *Root) SyncBounds() {
	lines := strings.Split(r.Print(), "\n")
	last := len(lines) - 1
	r.end = Position{Line: r.start.Line + last, Column: len(lines[last])}
}

// Selections returns a copy of the selections.
func (r *Root) Selections() []Selection {
	return append([]Selection(nil), r.selections...)
}

// Selection returns the primary (last) selection.
func (r *Root) Selection() Selection {
	return r.selections[len(r.selections)-1]
}

// Cursor returns the head of the primary selection.
func (r *Root) Cursor() Position {
	return r.Selection().Head
}

// HasSingleSelection returns true if exactly one selection exists.
func (r *Root) HasSingleSelection() bool {
	return len(r.selections) == 1
}

// HasSingleCursor returns true if exactly one empty selection exists.
func (r *Root) HasSingleCursor() bool {
	return r.HasSingleSelection() && r.selections[0].IsCursor()
}

// ReplaceCursor collapses all selections into a single cursor.
func (r *Root) ReplaceCursor(p Position) {
	r.selections = []Selection{NewCursorSelection(p)}
}

// ReplaceSelections replaces all selections.
// It panics with ErrEmptySelections if selections is empty.
func (r *Root) ReplaceSelections(selections []Selection) {
	if len(selections) == 0 {
		panic(ErrEmptySelections)
	}
	r.selections = append([]Selection(nil), selections...)
}

// ListUnderCursor returns the node owning the cursor line.
func (r *Root) ListUnderCursor() *List {
	return r.ListUnderLine(r.Cursor().Line)
}

// ListUnderLine returns the node whose own content lines include line, or nil.
func (r *Root) ListUnderLine(line int) *List {
	if line < r.start.Line || line > r.end.Line {
		return nil
	}
	var found *List
	r.walk(func(l *List, from, till int) bool {
		if line >= from && line <= till {
			found = l
			return false
		}
		return true
	})
	return found
}

// ContentLinesRangeOf returns the first and last document line of the node's
// own content. ok is false if the node is not attached to this root.
func (r *Root) ContentLinesRangeOf(target *List) (from, till int, ok bool) {
	r.walk(func(l *List, f, t int) bool {
		if l == target {
			from, till, ok = f, t, true
			return false
		}
		return true
	})
	return from, till, ok
}

// walk visits attached nodes in document order with their own line ranges.
// It stops as soon as visit returns false.
func (r *Root) walk(visit func(l *List, from, till int) bool) {
	line := r.start.Line
	var rec func(l *List) bool
	rec = func(l *List) bool {
		for _, child := range l.Children() {
			from := line
			till := from + child.LineCount() - 1
			if !visit(child, from, till) {
				return false
			}
			line = till + 1
			if !rec(child) {
				return false
			}
		}
		return true
	}
	rec(r.RootList())
}

// Lists returns every attached node in document order.
func (r *Root) Lists() []*List {
	var out []*List
	r.walk(func(l *List, _, _ int) bool {
		out = append(out, l)
		return true
	})
	return out
}

// LineCount returns the number of document lines the tree prints to.
func (r *Root) LineCount() int {
	return r.RootList().subtreeLineCount()
}

// Print serializes the tree. The result has no trailing newline.
func (r *Root) Print() string {
	var sb strings.Builder
	for _, child := range r.Children() {
		child.print(&sb)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Clone returns a deep copy that keeps every node id.
func (r *Root) Clone() *Root {
	c := &Root{
		start:      r.start,
		end:        r.end,
		selections: r.Selections(),
		nodes:      make(map[ID]*List, len(r.nodes)),
		nextID:     r.nextID,
		rootList:   r.rootList,
	}
	for id, l := range r.nodes {
		cl := *l
		cl.root = c
		cl.lines = append([]string(nil), l.lines...)
		cl.children = append([]ID(nil), l.children...)
		c.nodes[id] = &cl
	}
	return c
}
