package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler was found for an action.
	ErrNoHandler = errors.New("dispatcher: no handler for action")

	// ErrFeatureDisabled indicates the feature behind a call is switched
	// off in the configuration.
	ErrFeatureDisabled = errors.New("dispatcher: feature disabled")

	// ErrInvalidPlacement indicates a move placement other than before,
	// after or inside.
	ErrInvalidPlacement = errors.New("dispatcher: invalid placement")
)
