package renderer

import (
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/outliner/internal/outline"
)

// DefaultTabWidth is the number of cells a tab advances to.
const DefaultTabWidth = 4

// Reader is the part of a buffer the layout needs.
type Reader interface {
	LineCount() int
	GetLine(n int) string
	IsFolded(line int) bool
}

// VisibleLines returns the lines not hidden by a fold, in ascending order.
func VisibleLines(r Reader) []int {
	n := r.LineCount()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, i)
		if r.IsFolded(i) {
			i = FoldEnd(r, i)
		}
	}
	return out
}

// FoldEnd returns the last line hidden by a fold starting at line. A fold on
// an item hides every following outline line indented deeper than the item.
// It returns line itself when nothing is hidden.
func FoldEnd(r Reader, line int) int {
	head := outline.Classify(r.GetLine(line))
	if !head.IsItem() {
		return line
	}
	end := line
	for i := line + 1; i < r.LineCount(); i++ {
		l := outline.Classify(r.GetLine(i))
		if !l.IsOutlineLine() || len(l.Indent) <= len(head.Indent) {
			break
		}
		end = i
	}
	return end
}

// runeCells returns the cells r occupies when drawn at cell x.
func runeCells(r rune, x, tabWidth int) int {
	if r == '\t' {
		return tabWidth - x%tabWidth
	}
	if unicode.IsControl(r) {
		return 1
	}
	return runewidth.RuneWidth(r)
}

// CellColumn returns the display column of byte offset col in text.
func CellColumn(text string, col, tabWidth int) int {
	x := 0
	for i, r := range text {
		if i >= col {
			break
		}
		x += runeCells(r, x, tabWidth)
	}
	return x
}

// ByteColumn returns the byte offset of the rune covering display column
// cell, or len(text) when the text is shorter.
func ByteColumn(text string, cell, tabWidth int) int {
	x := 0
	for i, r := range text {
		w := runeCells(r, x, tabWidth)
		if x+w > cell {
			return i
		}
		x += w
	}
	return len(text)
}

// prevRune returns the byte offset of the rune before col.
func prevRune(text string, col int) int {
	_, size := utf8.DecodeLastRuneInString(text[:col])
	return col - size
}

// nextRune returns the byte offset of the rune after col.
func nextRune(text string, col int) int {
	_, size := utf8.DecodeRuneInString(text[col:])
	return col + size
}

// span is a run of text drawn in one style.
type span struct {
	text  string
	style tcell.Style
}

// spans splits a line into styled runs by its outline role.
func (t Theme) spans(text string) []span {
	l := outline.Classify(text)
	switch l.Kind {
	case outline.KindBulletItem:
		return []span{
			{l.Indent, t.Text},
			{l.Bullet, t.Bullet},
			{l.Separator, t.Text},
			{l.Checkbox, t.Checkbox},
			{l.Content, t.Text},
		}
	case outline.KindContinuation:
		return []span{
			{l.Indent, t.Text},
			{text[len(l.Indent):], t.Notes},
		}
	default:
		return []span{{text, t.Text}}
	}
}
