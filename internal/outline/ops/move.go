package ops

import (
	"github.com/dshills/outliner/internal/outline"
)

// MoveUp swaps the item under the cursor with its previous sibling. The first
// child of a parent moves to the end of the parent's previous sibling.
func MoveUp() Operation {
	return func(root *outline.Root) Result {
		return moveVertically(root, func(parent, grandParent, list *outline.List) bool {
			if prev := parent.PrevSiblingOf(list); prev != nil {
				parent.RemoveChild(list)
				parent.AddBefore(prev, list)
				return true
			}
			if grandParent == nil {
				return false
			}
			uncle := grandParent.PrevSiblingOf(parent)
			if uncle == nil {
				return false
			}
			parent.RemoveChild(list)
			uncle.AddAfterAll(list)
			return true
		})
	}
}

// MoveDown swaps the item under the cursor with its next sibling. The last
// child of a parent moves to the start of the parent's next sibling.
func MoveDown() Operation {
	return func(root *outline.Root) Result {
		return moveVertically(root, func(parent, grandParent, list *outline.List) bool {
			if next := parent.NextSiblingOf(list); next != nil {
				parent.RemoveChild(list)
				parent.AddAfter(next, list)
				return true
			}
			if grandParent == nil {
				return false
			}
			uncle := grandParent.NextSiblingOf(parent)
			if uncle == nil {
				return false
			}
			parent.RemoveChild(list)
			uncle.AddBeforeAll(list)
			return true
		})
	}
}

func moveVertically(root *outline.Root, move func(parent, grandParent, list *outline.List) bool) Result {
	if !root.HasSingleCursor() {
		return noop
	}
	list := root.ListUnderCursor()
	if list == nil {
		return noop
	}
	parent := list.Parent()
	startBefore := list.FirstLineContentStart().Line

	if !move(parent, parent.Parent(), list) {
		return stop
	}

	lineDiff := list.FirstLineContentStart().Line - startBefore
	cursor := root.Cursor()
	root.ReplaceCursor(outline.Pos(cursor.Line+lineDiff, cursor.Column))
	outline.RecalculateNumericBullets(root)
	return updated
}

// MoveToPosition moves the item owning moveLine, with its subtree, before,
// after or inside the item owning targetLine and re-indents it for its new
// place. Moving an item next to or into itself does nothing.
func MoveToPosition(moveLine, targetLine int, where Placement, defaultIndent string) Operation {
	if defaultIndent == "" {
		defaultIndent = DefaultIndentChars
	}
	return func(root *outline.Root) Result {
		list := root.ListUnderLine(moveLine)
		target := root.ListUnderLine(targetLine)
		if list == nil || target == nil || !where.Valid() || list.Contains(target) {
			return noop
		}

		anchor, anchored := cursorAnchorFor(root, list, target)

		list.Parent().RemoveChild(list)
		switch where {
		case Before:
			target.Parent().AddBefore(target, list)
		case After:
			target.Parent().AddAfter(target, list)
		case Inside:
			target.AddBeforeAll(list)
		}

		newIndent := target.FirstLineIndent()
		if where == Inside {
			newIndent += defaultIndent
		}
		list.UnindentContent(0, len(list.FirstLineIndent()))
		list.IndentContent(0, newIndent)

		if anchored {
			start := anchor.list.FirstLineContentStart()
			root.ReplaceCursor(outline.Pos(start.Line+anchor.lineDiff, max(start.Column+anchor.columnDiff, 0)))
		} else {
			root.ReplaceCursor(list.LastLineContentEnd())
		}
		outline.RecalculateNumericBullets(root)
		return updated
	}
}

type cursorAnchor struct {
	list       *outline.List
	lineDiff   int
	columnDiff int
}

// cursorAnchorFor records the cursor relative to the item that owns it when
// the cursor lies between the moved item and the target.
func cursorAnchorFor(root *outline.Root, list, target *outline.List) (cursorAnchor, bool) {
	cursor := root.Cursor()
	lines := []int{
		list.FirstLineContentStart().Line,
		list.LastLineContentEnd().Line,
		target.FirstLineContentStart().Line,
		target.LastLineContentEnd().Line,
	}
	if cursor.Line < min(lines[0], lines[1], lines[2], lines[3]) || cursor.Line > max(lines[0], lines[1], lines[2], lines[3]) {
		return cursorAnchor{}, false
	}
	owner := root.ListUnderLine(cursor.Line)
	if owner == nil {
		return cursorAnchor{}, false
	}
	start := owner.FirstLineContentStart()
	return cursorAnchor{
		list:       owner,
		lineDiff:   cursor.Line - start.Line,
		columnDiff: cursor.Column - start.Column,
	}, true
}
