// Package dispatcher maps host action names to outline operations.
//
// A host (the terminal editor, the command line, a Lua script) sends an
// action such as "outliner.indent" together with the buffer it applies to.
// The dispatcher looks up the handler, checks the feature flag guarding it,
// runs the operations through a perform.Performer and reports back whether
// the action was handled and whether the host should run its own default
// behaviour.
//
// # Feature flags
//
// Actions that override a host key are gated by the outliner configuration:
//
//	overrideTabBehaviour       outliner.indent, outliner.outdent
//	overrideEnterBehaviour     outliner.enter, outliner.noteLine
//	overrideSelectAllBehaviour outliner.selectAll
//	overrideVimOBehaviour      outliner.insertAbove, outliner.insertBelow
//	dragAndDrop                BeginMove, CommitMove
//
// A disabled action returns a Result with Handled false so the host falls
// back to its default handling.
//
// # Chained actions
//
// Some actions run several operations against one parse of the buffer:
// outliner.enter outdents an empty item and only creates a new item when the
// outdent did not apply, and outliner.clampCursor moves the cursor out of a
// folded range before keeping it within the item content. Both clamps are
// off when keepCursorWithinContent is "never".
//
// # Undo
//
// When a History is attached every dispatched action is one undo step, even
// when it wrote to the buffer more than once.
package dispatcher
