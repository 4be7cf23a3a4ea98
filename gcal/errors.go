// ABOUTME: Error types for the calendar bridge
// ABOUTME: Sentinels for flow control plus a typed provider error wrapper
package gcal

import (
	"errors"
	"fmt"
)

// ErrForbiddenRef means a caller-supplied local back-reference pointed at a
// row the caller does not own or that is not linked to the target event.
var ErrForbiddenRef = errors.New("gcal: local reference does not belong to caller")

// ProviderError wraps a non-2xx response from the calendar provider.
type ProviderError struct {
	Op     string
	Status int
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("google calendar %s failed (HTTP %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("google calendar %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
