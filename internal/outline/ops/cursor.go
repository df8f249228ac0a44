package ops

import (
	"github.com/dshills/outliner/internal/outline"
)

// ClampOutsideFold moves a cursor hidden inside a folded subtree to the end
// of the first line of the outermost fold root.
func ClampOutsideFold() Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil || !list.IsFolded() {
			return noop
		}
		firstLineEnd := list.TopFoldRoot().LinesInfo()[0].To
		if root.Cursor().Line <= firstLineEnd.Line {
			return noop
		}
		root.ReplaceCursor(firstLineEnd)
		return updated
	}
}

// ClampWithinContent moves a cursor that sits in the structural prefix of a
// line forward to where the content starts.
func ClampWithinContent() Operation {
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
		prefix := lines[idx].From.Column
		if idx == 0 {
			prefix = list.FirstLineContentStartAfterCheckbox().Column
		}
		if cursor.Column >= prefix {
			return noop
		}
		root.ReplaceCursor(outline.Pos(cursor.Line, prefix))
		return updated
	}
}

// SelectContent grows the selection step by step: the content of the current
// item, then the item with its subtree, then the whole outline.
func SelectContent() Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleSelection() {
			return noop
		}
		selection := root.Selection()
		from, to := selection.From(), selection.To()
		rootStart, rootEnd := root.ContentRange()
		if from.Line < rootStart.Line || to.Line > rootEnd.Line {
			return noop
		}
		if from == rootStart && to == rootEnd {
			return noop
		}

		list := root.ListUnderCursor()
		owner := root.ListUnderLine(from.Line)
		if list == nil || owner == nil {
			return noop
		}
		contentStart := list.FirstLineContentStartAfterCheckbox()
		contentEnd := list.LastLineContentEnd()
		subtreeStart := owner.FirstLineContentStartAfterCheckbox()
		subtreeEnd := owner.ContentEndIncludingChildren()

		switch {
		case from == contentStart && to == contentEnd:
			if owner.HasChildren() {
				root.ReplaceSelections([]outline.Selection{outline.NewSelection(subtreeStart, subtreeEnd)})
			} else {
				root.ReplaceSelections([]outline.Selection{outline.NewSelection(rootStart, rootEnd)})
			}
		case from == subtreeStart && to == subtreeEnd:
			root.ReplaceSelections([]outline.Selection{outline.NewSelection(rootStart, rootEnd)})
		case owner != list || root.ListUnderLine(to.Line) != list:
			// Spans several items.
			return noop
		default:
			root.ReplaceSelections([]outline.Selection{outline.NewSelection(contentStart, contentEnd)})
		}
		return updated
	}
}

// PreviousUnfoldedLine handles a left arrow at the start of a content line by
// moving to the end of the previous visible line.
func PreviousUnfoldedLine() Operation {
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
		if idx == 0 {
			start += list.CheckboxLength()
		}
		if cursor.Column != start {
			return noop
		}

		if idx > 0 {
			root.ReplaceCursor(lines[idx-1].To)
			return updated
		}

		prev := root.ListUnderLine(cursor.Line - 1)
		if prev == nil {
			return noop
		}
		if prev.IsFolded() {
			root.ReplaceCursor(prev.TopFoldRoot().LinesInfo()[0].To)
		} else {
			root.ReplaceCursor(prev.LastLineContentEnd())
		}
		return updated
	}
}
