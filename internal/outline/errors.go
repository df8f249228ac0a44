package outline

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned or raised by the outline model.
var (
	// ErrMalformedIndentation indicates an outline region with inconsistent indentation.
	ErrMalformedIndentation = errors.New("malformed indentation")

	// ErrNotesIndentAlreadySet indicates a second attempt to define a node's notes indent.
	ErrNotesIndentAlreadySet = errors.New("notes indent already provided")

	// ErrNotesIndentMissing indicates a note line was added before the notes indent was known.
	ErrNotesIndentMissing = errors.New("notes indent should be provided first")

	// ErrEmptySelections indicates a Root was given no selections.
	ErrEmptySelections = errors.New("root requires at least one selection")
)

// ParseError describes why an outline region could not be parsed.
type ParseError struct {
	// Line is the document line where parsing failed.
	Line int
	// Expected is the indentation (or token) the parser expected.
	Expected string
	// Got is what the parser found.
	Got string
	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Expected != "" || e.Got != "" {
		return fmt.Sprintf("unable to parse list at line %d: %s: expected %q, got %q", e.Line, e.Message, e.Expected, e.Got)
	}
	return fmt.Sprintf("unable to parse list at line %d: %s", e.Line, e.Message)
}

// Is reports ParseError as a malformed-indentation failure.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedIndentation
}

// visibleIndent renders spaces as S and tabs as T so that diagnostics are readable.
func visibleIndent(s string) string {
	return strings.NewReplacer(" ", "S", "\t", "T").Replace(s)
}
