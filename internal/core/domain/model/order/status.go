package order

import (
	"fmt"
	"slices"

	"orders/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	CREATED --pay--> PAID --ship--> SHIPPED --complete--> COMPLETED
//
// Legal edges live in the transitions table only. Adding a status means adding
// a constant, its name and its edge, nothing else.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status, set only when an order is created.
	Created

	// Paid means exactly one payment for the full total has been recorded.
	Paid

	// Shipped means the paid order has left the warehouse.
	Shipped

	// Completed is terminal.
	Completed
)

var statusNames = map[Status]string{
	Unknown:   "UNKNOWN",
	Created:   "CREATED",
	Paid:      "PAID",
	Shipped:   "SHIPPED",
	Completed: "COMPLETED",
}

// Transition is a named edge of the state machine.
type Transition string

const (
	Pay      Transition = "pay"
	Ship     Transition = "ship"
	Complete Transition = "complete"
)

type edge struct {
	from Status
	to   Status
}

// transitions is the single source of truth for legal status changes.
var transitions = map[Transition]edge{
	Pay:      {from: Created, to: Paid},
	Ship:     {from: Paid, to: Shipped},
	Complete: {from: Shipped, to: Completed},
}

// ParseStatus converts the persisted name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if s != Unknown && n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Created, Paid, Shipped, Completed}
}

// Validate checks if the Status value is one of the lifecycle statuses.
// Statuses read from the store are validated before use.
func (s Status) Validate() error {
	if s == Unknown || !slices.Contains(Statuses(), s) {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe to call on invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// MarshalText renders the status name in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	for _, e := range transitions {
		if e.from == s {
			return false
		}
	}
	return s != Unknown
}

// Apply returns the status reached by taking t from s.
//
// Returns:
//   - (next, nil) when s is the required predecessor of t
//   - (Unknown, *errs.InvalidStateError) naming the required status otherwise
//   - (Unknown, *errs.ValueIsInvalidError) for a transition not in the table
//
// Example:
//
//	next, err := order.Created.Apply(order.Pay) // PAID, nil
//	_, err = order.Created.Apply(order.Ship)    // state is invalid: cannot ship from CREATED, requires PAID
func (s Status) Apply(t Transition) (Status, error) {
	e, ok := transitions[t]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("transition", fmt.Errorf("%q is not a known transition", t))
	}
	if s != e.from {
		return Unknown, errs.NewInvalidStateError(string(t), s, e.from)
	}
	return e.to, nil
}

// From returns the status a transition requires.
func (t Transition) From() Status {
	return transitions[t].from
}

// To returns the status a transition leads to.
func (t Transition) To() Status {
	return transitions[t].to
}
