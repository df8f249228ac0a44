// Package history provides undo and redo for a buffer.
//
// A History is attached to a buffer as its recorder, so every ReplaceRange
// becomes one undo step:
//
//	h := history.NewHistory(1000)
//	buf := buffer.NewBufferFromString(text, buffer.WithRecorder(h))
//
//	// ... edits ...
//
//	h.Undo(buf)
//	h.Redo(buf)
//
// Undo restores the selections that were active when the change was made.
// Redo puts the cursor after the re-inserted text.
//
// # Grouping
//
// Several changes can be undone together, for example all edits made by one
// script run:
//
//	err := h.Transaction("script", func() error {
//	    // ... multiple edits ...
//	    return nil
//	})
package history
