package ops

import (
	"strings"

	"github.com/dshills/outliner/internal/outline"
)

// NoZoom tells CreateNewItem that no item is zoomed into.
const NoZoom = -1

const (
	codeFence         = "```"
	uncheckedCheckbox = "[ ] "
)

// CreateNewItem splits the item under the cursor at the selection. The text
// after the selection becomes a new item: the first child when the split is
// at the end of an item with visible children or the item is the zoom root
// starting at zoomLine, the next sibling otherwise. A checkbox on the split
// item is echoed as an unchecked checkbox on the new one.
func CreateNewItem(defaultIndent string, zoomLine int) Operation {
	if defaultIndent == "" {
		defaultIndent = DefaultIndentChars
	}
	return func(root *outline.Root) Result {
		if !root.HasSingleSelection() {
			return noop
		}
		selection := root.Selection()
		if !selection.IsSingleLine() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		lines := list.LinesInfo()
		if len(lines) == 1 && outline.IsEmptyContent(lines[0].Text) {
			return noop
		}
		cursor := root.Cursor()
		idx := lineIndex(lines, cursor.Line)
		if idx < 0 || cursor.Column < lines[idx].From.Column {
			return noop
		}

		var oldLines, newLines []string
		for i, line := range lines {
			switch {
			case i < idx:
				oldLines = append(oldLines, line.Text)
			case i == idx:
				from := clamp(selection.From().Column-line.From.Column, 0, len(line.Text))
				to := clamp(selection.To().Column-line.From.Column, from, len(line.Text))
				oldLines = append(oldLines, line.Text[:from])
				newLines = append(newLines, line.Text[to:])
			default:
				newLines = append(newLines, line.Text)
			}
		}

		if fences := strings.Count(strings.Join(oldLines, "\n"), codeFence); fences%2 != 0 {
			return noop
		}

		isZoomRoot := zoomLine != NoZoom && list.FirstLineContentStart().Line == zoomLine
		hasChildren := list.HasChildren()
		isFoldRoot := list.IsFoldRoot()
		atEnd := cursor == list.LastLineContentEnd()
		onChildLevel := isZoomRoot || (hasChildren && !isFoldRoot && atEnd)

		indent, bullet, sep := list.FirstLineIndent(), list.Bullet(), list.SpaceAfterBullet()
		if onChildLevel {
			if child := list.FirstChild(); child != nil {
				indent, bullet, sep = child.FirstLineIndent(), child.Bullet(), child.SpaceAfterBullet()
			} else {
				indent += defaultIndent
			}
		}

		prefix := ""
		if outline.HasCheckbox(oldLines[0]) {
			prefix = uncheckedCheckbox
		}

		newList := root.NewList(indent, bullet, prefix, sep, prefix+newLines[0], false)
		if len(newLines) > 1 {
			if notesIndent, ok := list.NotesIndent(); ok {
				newList.SetNotesIndent(notesIndent)
			}
			newList.ReplaceLines(append([]string{prefix + newLines[0]}, newLines[1:]...))
		}

		if onChildLevel {
			list.AddBeforeAll(newList)
		} else {
			if !isFoldRoot || !atEnd {
				for _, child := range list.Children() {
					list.RemoveChild(child)
					newList.AddAfterAll(child)
				}
			}
			list.Parent().AddAfter(list, newList)
		}
		list.ReplaceLines(oldLines)

		start := newList.FirstLineContentStart()
		root.ReplaceCursor(outline.Pos(start.Line, start.Column+len(prefix)))
		outline.RecalculateNumericBullets(root)
		return updated
	}
}

// CreateNoteLine splits the current content line at the selection into a new
// note line of the same item. An item without notes gets a notes indent
// aligned with its content.
func CreateNoteLine() Operation {
	return func(root *outline.Root) Result {
		if !root.HasSingleSelection() {
			return noop
		}
		selection := root.Selection()
		if !selection.IsSingleLine() {
			return noop
		}
		list := root.ListUnderCursor()
		if list == nil {
			return noop
		}
		lines := list.LinesInfo()
		cursor := root.Cursor()
		idx := lineIndex(lines, cursor.Line)
		if idx < 0 || cursor.Column < lines[idx].From.Column {
			return noop
		}

		if _, ok := list.NotesIndent(); !ok {
			list.SetNotesIndent(list.FirstLineIndent() + strings.Repeat(" ", len(list.Bullet())+len(list.SpaceAfterBullet())))
		}

		line := lines[idx]
		from := clamp(selection.From().Column-line.From.Column, 0, len(line.Text))
		to := clamp(selection.To().Column-line.From.Column, from, len(line.Text))

		texts := lineTexts(lines)
		rest := append([]string{texts[idx][:from], texts[idx][to:]}, texts[idx+1:]...)
		list.ReplaceLines(append(texts[:idx], rest...))

		notesIndent, _ := list.NotesIndent()
		root.ReplaceCursor(outline.Pos(line.From.Line+1, len(notesIndent)))
		return updated
	}
}

// InsertBelow opens an empty item after the item under the cursor, or as its
// first child when it has visible children.
func InsertBelow() Operation {
	return func(root *outline.Root) Result {
		return insertEmpty(root, false)
	}
}

// InsertAbove opens an empty item before the item under the cursor.
func InsertAbove() Operation {
	return func(root *outline.Root) Result {
		return insertEmpty(root, true)
	}
}

func insertEmpty(root *outline.Root, above bool) Result {
	if !root.HasSingleSelection() {
		return noop
	}
	list := root.ListUnderCursor()
	if list == nil {
		return noop
	}

	prefix := ""
	if outline.HasCheckbox(list.Lines()[0]) {
		prefix = uncheckedCheckbox
	}

	asChild := !above && list.HasChildren() && !list.IsFolded()
	template := list
	if asChild {
		template = list.FirstChild()
	}
	newList := root.NewList(template.FirstLineIndent(), template.Bullet(), prefix, template.SpaceAfterBullet(), prefix, false)

	switch {
	case asChild:
		list.AddBeforeAll(newList)
	case above:
		list.Parent().AddBefore(list, newList)
	default:
		list.Parent().AddAfter(list, newList)
	}

	start := newList.FirstLineContentStart()
	root.ReplaceCursor(outline.Pos(start.Line, start.Column+len(prefix)))
	outline.RecalculateNumericBullets(root)
	return updated
}
