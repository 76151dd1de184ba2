package workflow

import "errors"

var (
	// ErrStateMissing indicates the graph state bag lost the intake state.
	ErrStateMissing = errors.New("intake state missing from graph state")
)
