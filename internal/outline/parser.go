package outline

import "slices"

// CursorMode controls how far the cursor is kept away from the bullet prefix.
type CursorMode string

const (
	// KeepCursorNever disables cursor clamping.
	KeepCursorNever CursorMode = "never"
	// KeepCursorBulletOnly keeps the cursor after the bullet separator.
	KeepCursorBulletOnly CursorMode = "bullet-only"
	// KeepCursorBulletAndCheckbox keeps the cursor after the bullet and checkbox.
	KeepCursorBulletAndCheckbox CursorMode = "bullet-and-checkbox"
)

// Valid reports whether m is a known mode.
func (m CursorMode) Valid() bool {
	switch m {
	case KeepCursorNever, KeepCursorBulletOnly, KeepCursorBulletAndCheckbox:
		return true
	}
	return false
}

// Reader is the read-only view of a host buffer consumed by the parser.
type Reader interface {
	// GetLine returns the text of line n without its line terminator.
	GetLine(n int) string
	// LastLine returns the index of the last line.
	LastLine() int
	// ListSelections returns the current selections.
	ListSelections() []Selection
	// GetAllFoldedLines returns the first lines of all folded ranges.
	GetAllFoldedLines() []int
}

// Editor is a Reader that can also be modified.
type Editor interface {
	Reader
	// GetCursor returns the head of the primary selection.
	GetCursor() Position
	// GetRange returns the text between two positions.
	GetRange(from, to Position) string
	// ReplaceRange replaces the text between two positions.
	ReplaceRange(text string, from, to Position) error
	// SetSelections replaces all selections.
	SetSelections(selections []Selection)
	// Fold folds the range starting at line.
	Fold(line int)
	// Unfold unfolds the range starting at line.
	Unfold(line int)
}

// Parser builds outline trees from host text.
type Parser struct {
	mode CursorMode
}

// NewParser creates a parser. The cursor mode decides whether a checkbox is
// part of the structural prefix of a bullet line.
func NewParser(mode CursorMode) *Parser {
	return &Parser{mode: mode}
}

// Parse parses the outline region containing the cursor line.
// It returns (nil, nil) when the cursor is not inside an outline.
func (p *Parser) Parse(r Reader, cursor Position) (*Root, error) {
	return p.ParseBounded(r, cursor.Line, 0, r.LastLine())
}

// ParseBounded parses the region around line, never looking above lowerBound
// or below upperBound.
func (p *Parser) ParseBounded(r Reader, line, lowerBound, upperBound int) (*Root, error) {
	if line < 0 || line > r.LastLine() {
		return nil, nil
	}
	if upperBound > r.LastLine() {
		upperBound = r.LastLine()
	}

	anchor, ok := findAnchor(r, line)
	if !ok {
		return nil, nil
	}

	start, ok := findRegionStart(r, anchor, lowerBound)
	if !ok {
		return nil, nil
	}

	end := findRegionEnd(r, anchor, upperBound)
	if start > line || end < line {
		return nil, nil
	}

	return p.build(r, start, end)
}

// ParseRange parses every outline region intersecting [fromLine, toLine].
// Malformed regions are skipped; the first parse error is returned alongside
// the roots that did parse.
func (p *Parser) ParseRange(r Reader, fromLine, toLine int) ([]*Root, error) {
	if toLine > r.LastLine() {
		toLine = r.LastLine()
	}
	var (
		roots    []*Root
		firstErr error
	)
	for line := fromLine; line <= toLine; line++ {
		if !Classify(r.GetLine(line)).IsTopLevelItem() {
			continue
		}
		root, err := p.ParseBounded(r, line, line, toLine)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			for line+1 <= toLine && Classify(r.GetLine(line+1)).IsOutlineLine() {
				line++
			}
			continue
		}
		if root == nil {
			continue
		}
		roots = append(roots, root)
		line = root.ContentEnd().Line
	}
	return roots, firstErr
}

// findAnchor returns the item line owning line.
func findAnchor(r Reader, line int) (int, bool) {
	ln := Classify(r.GetLine(line))
	if ln.IsItem() {
		return line, true
	}
	if ln.Kind != KindContinuation {
		return 0, false
	}
	for l := line - 1; l >= 0; l-- {
		ln := Classify(r.GetLine(l))
		if ln.IsItem() {
			return l, true
		}
		if ln.Kind != KindContinuation {
			break
		}
	}
	return 0, false
}

// findRegionStart walks back from anchor, no further than lowerBound, to the
// outermost zero-indent item.
func findRegionStart(r Reader, anchor, lowerBound int) (int, bool) {
	start, found := 0, false
	for l := anchor; l >= max(lowerBound, 0); l-- {
		ln := Classify(r.GetLine(l))
		if !ln.IsOutlineLine() {
			break
		}
		if ln.IsTopLevelItem() {
			start, found = l, true
		}
	}
	return start, found
}

// findRegionEnd walks forward from anchor to the last non-blank outline line.
func findRegionEnd(r Reader, anchor, upperBound int) int {
	end := anchor
	for l := anchor; l <= r.LastLine(); l++ {
		ln := Classify(r.GetLine(l))
		if !ln.IsOutlineLine() {
			break
		}
		end = l
		if l >= upperBound {
			end = upperBound
			break
		}
	}

	// A trailing whitespace-only line that does not continue the indentation
	// of the line above is left out of the region.
	if end > anchor {
		last := Classify(r.GetLine(end))
		if last.IsWhitespaceOnly() {
			prev := r.GetLine(end - 1)
			prevIndent := prev[:leadingWhitespace(prev)]
			if len(last.Text) < len(prevIndent) || last.Text[:len(prevIndent)] != prevIndent {
				end--
			}
		}
	}
	return end
}

// parseState is the cursor of the top-down tree build.
type parseState struct {
	parser        *Parser
	root          *Root
	currentParent *List
	current       *List
	currentIndent string
	folded        []int
}

type lineHandler func(st *parseState, lineNo int, ln Line) error

var lineHandlers = map[LineKind]lineHandler{
	KindBulletItem:   (*parseState).item,
	KindContinuation: (*parseState).continuation,
}

func (p *Parser) build(r Reader, start, end int) (*Root, error) {
	root := NewRoot(
		Position{Line: start, Column: 0},
		Position{Line: end, Column: len(r.GetLine(end))},
		r.ListSelections(),
	)
	st := &parseState{
		parser:        p,
		root:          root,
		currentParent: root.RootList(),
		folded:        r.GetAllFoldedLines(),
	}

	for l := start; l <= end; l++ {
		ln := Classify(r.GetLine(l))
		handle, ok := lineHandlers[ln.Kind]
		if !ok {
			return nil, &ParseError{Line: l, Message: "expected list item or note", Got: ln.Text}
		}
		if err := handle(st, l, ln); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func (st *parseState) item(lineNo int, ln Line) error {
	n := min(len(st.currentIndent), len(ln.Indent))
	if ln.Indent[:n] != st.currentIndent[:n] {
		return &ParseError{
			Line:     lineNo,
			Message:  "inconsistent indentation",
			Expected: visibleIndent(st.currentIndent[:n]),
			Got:      visibleIndent(ln.Indent[:n]),
		}
	}

	switch {
	case len(ln.Indent) > len(st.currentIndent):
		st.currentParent = st.current
		st.currentIndent = ln.Indent
	case len(ln.Indent) < len(st.currentIndent):
		for st.currentParent.Parent() != nil && len(st.currentParent.FirstLineIndent()) >= len(ln.Indent) {
			st.currentParent = st.currentParent.Parent()
		}
		st.currentIndent = ln.Indent
	}

	checkbox := ln.Checkbox
	if st.parser.mode != KeepCursorBulletAndCheckbox {
		checkbox = ""
	}
	list := st.root.NewList(ln.Indent, ln.Bullet, checkbox, ln.Separator, ln.Checkbox+ln.Content, slices.Contains(st.folded, lineNo))
	st.currentParent.AddAfterAll(list)
	st.current = list
	return nil
}

func (st *parseState) continuation(lineNo int, ln Line) error {
	if st.current == nil {
		return &ParseError{Line: lineNo, Message: "expected list item, got note"}
	}

	notesIndent, defined := st.current.NotesIndent()
	want := st.currentIndent
	if defined {
		want = notesIndent
	}
	if len(ln.Text) < len(want) || ln.Text[:len(want)] != want {
		return &ParseError{
			Line:     lineNo,
			Message:  "inconsistent note indentation",
			Expected: visibleIndent(want),
			Got:      visibleIndent(ln.Indent),
		}
	}

	if !defined {
		if len(ln.Indent) <= len(st.currentIndent) {
			if ln.IsWhitespaceOnly() {
				st.current.addBlankNote()
				return nil
			}
			return &ParseError{Line: lineNo, Message: "expected some indent, got no indent"}
		}
		st.current.SetNotesIndent(ln.Indent)
		notesIndent = ln.Indent
	}
	st.current.AddLine(ln.Text[len(notesIndent):])
	return nil
}
