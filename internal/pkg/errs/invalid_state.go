package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidState is the sentinel for operations attempted from a lifecycle state
// that does not allow them.
var ErrInvalidState = errors.New("state is invalid")

// InvalidStateError names the attempted action, the state the object was found in
// and the state the action requires.
type InvalidStateError struct {
	Action   string
	Current  any
	Required any
	Cause    error
}

func NewInvalidStateError(action string, current, required any) *InvalidStateError {
	return &InvalidStateError{
		Action:   action,
		Current:  current,
		Required: required,
	}
}

func NewInvalidStateErrorWithCause(action string, current, required any, cause error) *InvalidStateError {
	return &InvalidStateError{
		Action:   action,
		Current:  current,
		Required: required,
		Cause:    cause,
	}
}

func (e *InvalidStateError) Error() string {
	msg := fmt.Sprintf("%s: cannot %s from %v, requires %v", ErrInvalidState, e.Action, e.Current, e.Required)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
