package pipeline

import (
	"fmt"
)

// CallbackError reports a callback that failed during the invoke phase. It
// wraps the callback's own error for errors.Is/As inspection.
type CallbackError struct {
	Handler    string
	Collection string
	Path       string
	Err        error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback '%s' failed at %s path %q: %v", e.Handler, e.Collection, e.Path, e.Err)
}

// Unwrap exposes the underlying callback error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}
