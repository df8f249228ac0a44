package outline

import "strings"

// ID identifies a List within one Root. Ids are assigned by the Root that
// creates the node and survive Clone, which lets two snapshots of the same
// outline be correlated node by node.
type ID int

// noID marks a missing parent reference.
const noID ID = -1

// List is one outline node: a bullet line, its note lines and its children.
//
// Nodes live in their Root's arena. Parent and children are stored as ids, so
// a node never owns a pointer to its parent.
type List struct {
	root *Root
	id   ID

	indent           string
	bullet           string
	checkbox         string
	spaceAfterBullet string

	// lines[0] is the bullet line content, lines[1:] are note lines with the
	// notes indent stripped.
	lines          []string
	notesIndent    string
	hasNotesIndent bool
	// blankNotes counts the whitespace lines at lines[1:] that were read
	// before the notes indent was defined. They keep the bullet line indent.
	blankNotes int

	parent   ID
	children []ID
	foldRoot bool
}

// LineInfo describes one content line of a node in document coordinates.
type LineInfo struct {
	Text string
	From Position
	To   Position
}

// ID returns the node id.
func (l *List) ID() ID {
	return l.id
}

// Root returns the document that owns the node.
func (l *List) Root() *Root {
	return l.root
}

// FirstLineIndent returns the literal leading whitespace of the bullet line.
func (l *List) FirstLineIndent() string {
	return l.indent
}

// Bullet returns the literal bullet marker.
func (l *List) Bullet() string {
	return l.bullet
}

// SetBullet replaces the bullet marker.
func (l *List) SetBullet(bullet string) {
	l.bullet = bullet
}

// SpaceAfterBullet returns the separator between bullet and content.
func (l *List) SpaceAfterBullet() string {
	return l.spaceAfterBullet
}

// CheckboxLength returns the width of the checkbox counted as structural prefix.
func (l *List) CheckboxLength() int {
	return len(l.checkbox)
}

// NotesIndent returns the notes indent and whether it has been defined.
func (l *List) NotesIndent() (string, bool) {
	return l.notesIndent, l.hasNotesIndent
}

// SetNotesIndent defines the leading whitespace shared by all note lines.
// It panics with ErrNotesIndentAlreadySet if the indent was already defined.
func (l *List) SetNotesIndent(indent string) {
	if l.hasNotesIndent {
		panic(ErrNotesIndentAlreadySet)
	}
	l.notesIndent = indent
	l.hasNotesIndent = true
}

// notesPrefix returns the literal printed before each note line.
// Until a notes indent is defined, note lines can only be whitespace lines
// equal to the bullet line indent.
func (l *List) notesPrefix() string {
	if l.hasNotesIndent {
		return l.notesIndent
	}
	return l.indent
}

// linePrefix returns the literal printed before note line i.
func (l *List) linePrefix(i int) string {
	if i <= l.blankNotes {
		return l.indent
	}
	return l.notesPrefix()
}

// addBlankNote appends a whitespace line seen before the notes indent.
func (l *List) addBlankNote() {
	l.lines = append(l.lines, "")
	if !l.hasNotesIndent {
		l.blankNotes = len(l.lines) - 1
	}
}

// AddLine appends a note line. It panics with ErrNotesIndentMissing if the
// notes indent has not been defined.
func (l *List) AddLine(text string) {
	if !l.hasNotesIndent {
		panic(ErrNotesIndentMissing)
	}
	l.lines = append(l.lines, text)
}

// Lines returns a copy of the content lines.
func (l *List) Lines() []string {
	return append([]string(nil), l.lines...)
}

// ReplaceLines replaces all content lines.
func (l *List) ReplaceLines(lines []string) {
	l.lines = append([]string(nil), lines...)
	n := min(l.blankNotes, len(l.lines)-1)
	for i := 1; i <= n; i++ {
		if l.lines[i] != "" {
			n = i - 1
			break
		}
	}
	l.blankNotes = max(n, 0)
}

// LineCount returns the number of content lines owned by the node itself.
func (l *List) LineCount() int {
	return len(l.lines)
}

// Parent returns the parent node, or nil for the synthetic root list.
func (l *List) Parent() *List {
	if l.parent == noID {
		return nil
	}
	return l.root.nodes[l.parent]
}

// Children returns a copy of the child list.
func (l *List) Children() []*List {
	out := make([]*List, len(l.children))
	for i, id := range l.children {
		out[i] = l.root.nodes[id]
	}
	return out
}

// HasChildren returns true if the node has at least one child.
func (l *List) HasChildren() bool {
	return len(l.children) > 0
}

// FirstChild returns the first child or nil.
func (l *List) FirstChild() *List {
	if len(l.children) == 0 {
		return nil
	}
	return l.root.nodes[l.children[0]]
}

// LastChild returns the last child or nil.
func (l *List) LastChild() *List {
	if len(l.children) == 0 {
		return nil
	}
	return l.root.nodes[l.children[len(l.children)-1]]
}

// Level returns the depth of the node; top-level items are at level 1.
func (l *List) Level() int {
	level := 0
	for p := l.Parent(); p != nil; p = p.Parent() {
		level++
	}
	return level
}

// IsFoldRoot returns true if this node itself is folded.
func (l *List) IsFoldRoot() bool {
	return l.foldRoot
}

// IsFolded returns true if the node or any ancestor is a fold root.
func (l *List) IsFolded() bool {
	for n := l; n != nil; n = n.Parent() {
		if n.foldRoot {
			return true
		}
	}
	return false
}

// TopFoldRoot returns the outermost folded ancestor (or the node itself), or nil.
func (l *List) TopFoldRoot() *List {
	var top *List
	for n := l; n != nil; n = n.Parent() {
		if n.foldRoot {
			top = n
		}
	}
	return top
}

// contentStartColumn is the column where bullet line content begins.
func (l *List) contentStartColumn() int {
	return len(l.indent) + len(l.bullet) + len(l.spaceAfterBullet)
}

// firstLine returns the document line of the bullet line.
func (l *List) firstLine() int {
	from, _, _ := l.root.ContentLinesRangeOf(l)
	return from
}

// FirstLineContentStart returns the position right after the bullet separator.
func (l *List) FirstLineContentStart() Position {
	return Position{Line: l.firstLine(), Column: l.contentStartColumn()}
}

// FirstLineContentStartAfterCheckbox is FirstLineContentStart shifted past a
// structural checkbox.
func (l *List) FirstLineContentStartAfterCheckbox() Position {
	return Position{Line: l.firstLine(), Column: l.contentStartColumn() + l.CheckboxLength()}
}

// LastLineContentEnd returns the end of the node's own last content line.
func (l *List) LastLineContentEnd() Position {
	_, to, _ := l.root.ContentLinesRangeOf(l)
	last := len(l.lines) - 1
	if last == 0 {
		return Position{Line: to, Column: l.contentStartColumn() + len(l.lines[0])}
	}
	return Position{Line: to, Column: len(l.linePrefix(last)) + len(l.lines[last])}
}

// LastDescendant walks last children down to a leaf.
func (l *List) LastDescendant() *List {
	n := l
	for n.HasChildren() {
		n = n.LastChild()
	}
	return n
}

// ContentEndIncludingChildren returns the end of the node's subtree.
func (l *List) ContentEndIncludingChildren() Position {
	return l.LastDescendant().LastLineContentEnd()
}

// LinesInfo returns each content line with its document coordinates.
func (l *List) LinesInfo() []LineInfo {
	start := l.firstLine()
	infos := make([]LineInfo, len(l.lines))
	for i, text := range l.lines {
		col := len(l.linePrefix(i))
		if i == 0 {
			col = l.contentStartColumn()
		}
		infos[i] = LineInfo{
			Text: text,
			From: Position{Line: start + i, Column: col},
			To:   Position{Line: start + i, Column: col + len(text)},
		}
	}
	return infos
}

// IndentContent inserts chars at column pos of the indent of the node, its
// notes and its whole subtree.
func (l *List) IndentContent(pos int, chars string) {
	l.indent = l.indent[:pos] + chars + l.indent[pos:]
	if l.hasNotesIndent {
		l.notesIndent = l.notesIndent[:pos] + chars + l.notesIndent[pos:]
	}
	for _, child := range l.Children() {
		child.IndentContent(pos, chars)
	}
}

// UnindentContent removes indent[from:till] from the node, its notes and its
// whole subtree.
func (l *List) UnindentContent(from, till int) {
	l.indent = cutRange(l.indent, from, till)
	if l.hasNotesIndent {
		l.notesIndent = cutRange(l.notesIndent, from, till)
	}
	for _, child := range l.Children() {
		child.UnindentContent(from, till)
	}
}

func cutRange(s string, from, till int) string {
	if from > len(s) {
		from = len(s)
	}
	if till > len(s) {
		till = len(s)
	}
	return s[:from] + s[till:]
}

// AddBeforeAll inserts child as the first child.
func (l *List) AddBeforeAll(child *List) {
	l.insertChild(0, child)
}

// AddAfterAll appends child as the last child.
func (l *List) AddAfterAll(child *List) {
	l.insertChild(len(l.children), child)
}

// AddBefore inserts child before the sibling before.
func (l *List) AddBefore(before, child *List) {
	l.insertChild(l.indexOf(before), child)
}

// AddAfter inserts child after the sibling after.
func (l *List) AddAfter(after, child *List) {
	l.insertChild(l.indexOf(after)+1, child)
}

// RemoveChild detaches child from this node.
func (l *List) RemoveChild(child *List) {
	i := l.indexOf(child)
	if i < 0 {
		return
	}
	l.children = append(l.children[:i], l.children[i+1:]...)
	child.parent = noID
}

// PrevSiblingOf returns the child preceding child, or nil.
func (l *List) PrevSiblingOf(child *List) *List {
	i := l.indexOf(child)
	if i <= 0 {
		return nil
	}
	return l.root.nodes[l.children[i-1]]
}

// NextSiblingOf returns the child following child, or nil.
func (l *List) NextSiblingOf(child *List) *List {
	i := l.indexOf(child)
	if i < 0 || i+1 >= len(l.children) {
		return nil
	}
	return l.root.nodes[l.children[i+1]]
}

// Contains reports whether other is this node or one of its descendants.
func (l *List) Contains(other *List) bool {
	for n := other; n != nil; n = n.Parent() {
		if n == l {
			return true
		}
	}
	return false
}

func (l *List) indexOf(child *List) int {
	for i, id := range l.children {
		if id == child.id {
			return i
		}
	}
	return -1
}

func (l *List) insertChild(i int, child *List) {
	if i < 0 {
		i = 0
	}
	l.children = append(l.children, noID)
	copy(l.children[i+1:], l.children[i:])
	l.children[i] = child.id
	child.parent = l.id
}

// print writes the node and its subtree, each line newline-terminated.
func (l *List) print(sb *strings.Builder) {
	for i, line := range l.lines {
		if i == 0 {
			sb.WriteString(l.indent)
			sb.WriteString(l.bullet)
			sb.WriteString(l.spaceAfterBullet)
		} else {
			sb.WriteString(l.linePrefix(i))
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	for _, child := range l.Children() {
		child.print(sb)
	}
}

// subtreeLineCount returns the number of document lines covered by the subtree.
func (l *List) subtreeLineCount() int {
	n := len(l.lines)
	for _, child := range l.Children() {
		n += child.subtreeLineCount()
	}
	return n
}

// SubtreeSize returns the number of nodes in the subtree, including l.
func (l *List) SubtreeSize() int {
	n := 1
	for _, child := range l.Children() {
		n += child.SubtreeSize()
	}
	return n
}
