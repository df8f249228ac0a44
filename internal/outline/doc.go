// Package outline models a bullet outline embedded in a plain text buffer.
//
// An outline region is a contiguous run of lines that starts with an
// unindented bullet item:
//
//	- first item
//	  a note line belonging to the first item
//		- [ ] a child with a checkbox
//	- second item
//
// The package provides three pieces:
//
//   - Classify: tags a single line as a bullet item, an indented
//     continuation, a blank line or anything else.
//   - Parser: finds the region around a cursor line and builds a Root.
//   - Root and List: the mutable tree. Nodes are kept in an arena owned by
//     the Root and refer to their parent by ID, so cloning a Root keeps ids
//     stable and lets two snapshots of the same outline be compared.
//
// Printing a parsed Root reproduces the source text of the region.
//
// # Errors
//
// Parse returns (nil, nil) when the cursor is not inside an outline and a
// *ParseError (matching ErrMalformedIndentation) when the region exists but
// its indentation is inconsistent. Structural misuse of the model, such as
// defining a notes indent twice or replacing the selections with an empty
// list, panics with one of the package error values.
package outline
