// Package buffer provides the in-memory host document the outline engine
// edits: a thread-safe list of lines together with selections and folded
// lines.
//
// Buffer implements outline.Editor, so the parser can read it and the patch
// engine can write back to it:
//
//	buf := buffer.NewBufferFromString("- a\n- b")
//	buf.SetCursor(outline.Pos(1, 3))
//	root, err := outline.NewParser(outline.KeepCursorBulletOnly).Parse(buf, buf.GetCursor())
//
// Positions are line and column pairs; columns are byte offsets within the
// line. Every ReplaceRange is reported to an optional Recorder, which is how
// the history package turns each edit into one undo step. Folds are kept on
// the lines they were set on: lines inserted or removed above a fold move it,
// and a fold inside a replaced range is dropped.
//
// Tests and tools can describe a buffer with its selection inline using
// NewBufferFromMarked, where "|" is the cursor and "^" the anchor:
//
//	buf := buffer.NewBufferFromMarked("- a\n- ^b|")
//
// Snapshot returns a read-only outline.Reader that does not change with the
// buffer.
package buffer
