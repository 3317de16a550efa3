package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTimeout indicates the backend did not respond within the bounded window
var ErrTimeout = errors.New("completion backend timed out")

// ModelNotFoundError indicates the requested model is absent on the backend.
// Available carries the backend's model list so callers can report it.
type ModelNotFoundError struct {
	Model     string
	Available []string
}

func (e *ModelNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("model %q not found on backend", e.Model)
	}
	return fmt.Sprintf("model %q not found on backend (available: %s)", e.Model, strings.Join(e.Available, ", "))
}

// BackendError wraps any other transport or HTTP fault from the backend
type BackendError struct {
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion backend error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("completion backend error: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a backend timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
