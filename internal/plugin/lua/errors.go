package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)

// ScriptError reports a failed script.
type ScriptError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return "script " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
