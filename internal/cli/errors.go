package cli

import (
	"errors"
	"fmt"
)

// Errors returned by commands.
var (
	// ErrInvalidPosition indicates a malformed or out of range position.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrNotHandled indicates an action found no outline under the cursor.
	ErrNotHandled = errors.New("action not handled")
)

// positionError reports a rejected --cursor, --anchor, --from or --to value.
type positionError struct {
	flag   string
	value  string
	reason string
}

func (e *positionError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.flag, e.value, e.reason)
}

func (e *positionError) Unwrap() error {
	return ErrInvalidPosition
}
