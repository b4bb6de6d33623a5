package errs

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the sentinel for infrastructure failures. It is the only
// failure class a caller may retry blindly.
var ErrUnavailable = errors.New("store is unavailable")

type UnavailableError struct {
	Operation string
	Cause     error
}

func NewUnavailableError(operation string) *UnavailableError {
	return &UnavailableError{Operation: operation}
}

func NewUnavailableErrorWithCause(operation string, cause error) *UnavailableError {
	return &UnavailableError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrUnavailable, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrUnavailable, e.Operation)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}
