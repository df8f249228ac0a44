package ops

import (
	"github.com/dshills/outliner/internal/outline"
)

// DeleteBackward handles a backspace at the start of a content line. On a
// note line the line is joined onto the previous one. On the first line of an
// item the item is merged into the item above when one of them is childless:
// both childless, the previous one childless at the same level, or the current
// one childless right under the previous one.
func DeleteBackward() Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		cursor := root.Cursor()
		lines := list.LinesInfo()
		idx := -1
		for i, l := range lines {
			if l.From == cursor {
				idx = i
				break
			}
		}
		switch {
		case idx == 0:
			return mergeWithPrevious(root, list, cursor)
		case idx > 0:
			return mergeNoteLines(root, list, lines, idx)
		}
		return noop
	}
}

func mergeNoteLines(root *outline.Root, list *outline.List, lines []outline.LineInfo, idx int) Result {
	texts := lineTexts(lines)
	root.ReplaceCursor(lines[idx-1].To)
	texts[idx-1] += texts[idx]
	list.ReplaceLines(append(texts[:idx], texts[idx+1:]...))
	return updated
}

func mergeWithPrevious(root *outline.Root, list *outline.List, cursor outline.Position) Result {
	if root.Children()[0] == list && !list.HasChildren() {
		return noop
	}
	prev := root.ListUnderLine(cursor.Line - 1)
	if prev == nil {
		return stop
	}

	bothChildless := !prev.HasChildren() && !list.HasChildren()
	prevChildlessSameLevel := !prev.HasChildren() && list.HasChildren() && prev.Level() == list.Level()
	listChildlessUnderPrev := !list.HasChildren() && prev.Level() == list.Level()-1
	if !bothChildless && !prevChildlessSameLevel && !listChildlessUnderPrev {
		return stop
	}

	prevEnd := prev.LastLineContentEnd()
	_, prevHasNotes := prev.NotesIndent()
	if listNotes, ok := list.NotesIndent(); ok && !prevHasNotes {
		prev.SetNotesIndent(prev.FirstLineIndent() + listNotes[min(len(list.FirstLineIndent()), len(listNotes)):])
	}

	merged := prev.Lines()
	own := list.Lines()
	merged[len(merged)-1] += own[0]
	prev.ReplaceLines(append(merged, own[1:]...))

	list.Parent().RemoveChild(list)
	for _, child := range list.Children() {
		list.RemoveChild(child)
		prev.AddAfterAll(child)
	}
	root.Release(list)

	root.ReplaceCursor(prevEnd)
	outline.RecalculateNumericBullets(root)
	return updated
}

// DeleteForward handles a delete at the end of a content line by moving the
// cursor to the start of the next content line and merging backwards.
func DeleteForward() Operation {
	backward := DeleteBackward()
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		cursor := root.Cursor()
		lines := list.LinesInfo()
		idx := -1
		for i, l := range lines {
			if l.To == cursor {
				idx = i
				break
			}
		}
		switch {
		case idx < 0:
			return noop
		case idx == len(lines)-1:
			next := root.ListUnderLine(lines[idx].To.Line + 1)
			if next == nil {
				return noop
			}
			root.ReplaceCursor(next.FirstLineContentStart())
		default:
			root.ReplaceCursor(lines[idx+1].From)
		}
		return backward(root)
	}
}

// TruncateToLineStart deletes the text between the start of the current
// content line and the cursor. A structural checkbox is kept.
func TruncateToLineStart() Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		cursor := root.Cursor()
		lines := list.LinesInfo()
		idx := lineIndex(lines, cursor.Line)
		if idx < 0 {
			return noop
		}

		start := lines[idx].From.Column
		keep := 0
		if idx == 0 {
			keep = list.CheckboxLength()
		}
		if cursor.Column < start {
			return noop
		}
		if cursor.Column <= start+keep {
			return stop
		}

		texts := lineTexts(lines)
		cut := min(cursor.Column-start, len(texts[idx]))
		texts[idx] = texts[idx][:keep] + texts[idx][cut:]
		list.ReplaceLines(texts)
		root.ReplaceCursor(outline.Pos(cursor.Line, start+keep))
		return updated
	}
}
