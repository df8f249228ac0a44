package ops

import (
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// Indent makes the item under the cursor the last child of its previous
// sibling. defaultIndent is used when the surrounding items give no hint.
func Indent(defaultIndent string) Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		parent := list.Parent()
		prev := parent.PrevSiblingOf(list)
		if prev == nil {
			return stop
		}

		startBefore := list.FirstLineContentStart().Line
		indentPos := len(list.FirstLineIndent())
		chars := indentDelta(list, parent, prev, defaultIndent)

		parent.RemoveChild(list)
		prev.AddAfterAll(list)
		list.IndentContent(indentPos, chars)

		lineDiff := list.FirstLineContentStart().Line - startBefore
		cursor := root.Cursor()
		root.ReplaceCursor(outline.Pos(cursor.Line+lineDiff, cursor.Column+len(chars)))
		outline.RecalculateNumericBullets(root)
		return updated
	}
}

// indentDelta picks the whitespace inserted when list moves under prev.
func indentDelta(list, parent, prev *outline.List, defaultIndent string) string {
	if child := prev.FirstChild(); child != nil {
		if d, ok := strings.CutPrefix(child.FirstLineIndent(), prev.FirstLineIndent()); ok && d != "" {
			return d
		}
	}
	if d, ok := strings.CutPrefix(list.FirstLineIndent(), parent.FirstLineIndent()); ok && d != "" {
		return d
	}
	if child := list.FirstChild(); child != nil {
		if d, ok := strings.CutPrefix(child.FirstLineIndent(), list.FirstLineIndent()); ok && d != "" {
			return d
		}
	}
	if defaultIndent == "" {
		return DefaultIndentChars
	}
	return defaultIndent
}

// Outdent makes the item under the cursor the next sibling of its parent.
// Following siblings stay where they are.
func Outdent() Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		parent := list.Parent()
		grandParent := parent.Parent()
		if grandParent == nil {
			return stop
		}

		startBefore := list.FirstLineContentStart().Line
		from := len(parent.FirstLineIndent())
		till := len(list.FirstLineIndent())

		parent.RemoveChild(list)
		grandParent.AddAfter(parent, list)
		list.UnindentContent(from, till)

		lineDiff := list.FirstLineContentStart().Line - startBefore
		cursor := root.Cursor()
		root.ReplaceCursor(outline.Pos(cursor.Line+lineDiff, max(cursor.Column-(till-from), 0)))
		outline.RecalculateNumericBullets(root)
		return updated
	}
}

// OutdentIfEmpty outdents a nested item whose only line is empty or an
// unchecked checkbox. Anything else is left to the next operation.
func OutdentIfEmpty() Operation {
	outdent := Outdent()
	return func(root *outline.Root) Result {
		if !root.HasSingleCursor() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		lines := list.Lines()
		if len(lines) > 1 || !outline.IsEmptyContent(lines[0]) || list.Level() == 1 {
			return noop
		}
		return outdent(root)
	}
}
