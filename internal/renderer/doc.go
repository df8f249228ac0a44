// Package renderer provides the interactive terminal host for outliner.
//
// The host draws a buffer on a tcell screen and turns key presses into
// dispatcher actions:
//
//	Tab / Shift-Tab      outliner.indent / outliner.outdent
//	Enter                outliner.enter
//	Shift-Enter, Alt-Enter outliner.noteLine
//	Backspace / Delete   outliner.backspace / outliner.delete
//	Ctrl-U               outliner.deleteToLineStart
//	Ctrl-A               outliner.selectAll
//	Left                 outliner.arrowLeft
//	Alt-Up / Alt-Down    outliner.moveUp / outliner.moveDown
//	Ctrl-F               outliner.toggleFold
//	Alt-o / Alt-O        outliner.insertBelow / outliner.insertAbove
//	Ctrl-Z / Ctrl-Y      undo / redo
//	Ctrl-S / Ctrl-Q      save / quit
//
// When an action is not handled (no outline under the cursor, or its
// feature flag is off) the host falls back to plain text editing. Every
// cursor movement schedules outliner.clampCursor as a follow-up so the
// cursor never rests inside a fold or before an item's content.
//
// Lines hidden by a fold are skipped when drawing and when moving the
// cursor vertically. Display widths come from go-runewidth; tabs expand to
// the configured tab width.
//
// Usage:
//
//	screen, _ := tcell.NewScreen()
//	h := renderer.NewHost(screen, buf, d, renderer.WithHistory(hist))
//	err := h.Run(ctx)
package renderer
