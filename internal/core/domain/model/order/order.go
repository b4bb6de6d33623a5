package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsNotPersisted is returned when a transition is attempted on an order
	// that the store has not assigned an identifier to yet.
	ErrOrderIsNotPersisted = errors.New("order has no identifier yet")
)

// Order is the aggregate root of the lifecycle. It owns its items exclusively,
// keeps the total fixed from creation on and advances its status only through
// the transitions table.
//
// Order follows these invariants:
//   - userID is positive and immutable
//   - total equals the sum of item subtotals at creation and is immutable
//   - status changes only via Pay, Ship and Complete, one edge at a time
//   - id is assigned once, by the store
//
// Order is not safe for concurrent mutation. Concurrent callers each load their
// own copy and the store arbitrates through the conditional status update.
type Order struct {
	// id is assigned by the store; zero until persisted
	id int64

	// userID is the owning user
	userID int64

	// status is the current lifecycle state
	status Status

	// total is Σ item.price*item.quantity
	total kernel.Cents

	// items are the order lines with snapshotted prices
	items []Item

	// events are recorded facts not yet written to the outbox
	events []kernel.DomainEvent

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an order in Created status and computes its total.
//
// Parameters:
//   - userID: the owner (must be positive)
//   - items: zero or more validated line items; an empty order has total 0
//
// Returns:
//   - *Order: the created order, not yet persisted (ID() == 0)
//   - error: ValueIsInvalidError for a bad user id or item, ValueIsOutOfRangeError on total overflow
//
// Example:
//
//	a, _ := order.NewItem(1, 2, 500)
//	b, _ := order.NewItem(2, 1, 300)
//	o, _ := order.NewOrder(userID, []order.Item{a, b})
//	o.Total() // 1300
func NewOrder(userID int64, items []Item) (*Order, error) {
	o := &Order{
		status:        Created,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setUserID(userID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from the store. The stored total is trusted
// as written at creation time and is not recomputed from items.
func RestoreOrder(id, userID int64, status Status, total kernel.Cents, items []Item) (*Order, error) {
	o := &Order{
		id:            id,
		total:         total,
		isConstructed: true,
	}

	if err := errors.Join(
		validateOrderID(id),
		o.setUserID(userID),
		status.Validate(),
		total.Validate(),
		validateItems(items),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.items = slices.Clone(items)
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two persisted orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != 0 && o.id == other.id
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) UserID() int64 {
	return o.userID
}

func (o *Order) Status() Status {
	return o.status
}

// Total returns the order total fixed at creation.
func (o *Order) Total() kernel.Cents {
	return o.total
}

// Items returns a copy of the line items.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

// AssignID stores the identifier chosen by the store and records the creation event.
// It may be called only once.
func (o *Order) AssignID(id int64) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.id != 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("order already has id %d", o.id))
	}
	if err := validateOrderID(id); err != nil {
		return err
	}

	o.id = id
	o.record(Unknown, o.status)
	return nil
}

// Pay settles the order for exactly its total and moves it to Paid.
//
// The status is checked before the amount, so paying a shipped order reports the
// wrong state rather than a wrong amount.
//
// Returns:
//   - *Payment: the new payment to persist together with the status change
//   - error: InvalidStateError unless Created, ValueIsInvalidError on amount mismatch
func (o *Order) Pay(amount kernel.Cents) (*Payment, error) {
	if err := o.checkPersisted(); err != nil {
		return nil, err
	}

	next, err := o.status.Apply(Pay)
	if err != nil {
		return nil, err
	}

	if amount != o.total {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"amountCents",
			fmt.Errorf("payment amount %d does not match order total %d", amount, o.total),
		)
	}

	payment := newPayment(o.id, amount, time.Now().UTC())
	o.moveTo(next)
	return payment, nil
}

// Ship moves a Paid order to Shipped.
func (o *Order) Ship() error {
	return o.advance(Ship)
}

// Complete moves a Shipped order to Completed. Completed is terminal.
func (o *Order) Complete() error {
	return o.advance(Complete)
}

// Advance applies a transition that carries no payload (ship, complete).
// Pay must go through Pay because it produces a Payment.
func (o *Order) Advance(t Transition) error {
	if t == Pay {
		return errs.NewValueIsInvalidErrorWithCause("transition", errors.New("pay requires an amount"))
	}
	return o.advance(t)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return slices.Clone(o.events)
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) advance(t Transition) error {
	if err := o.checkPersisted(); err != nil {
		return err
	}

	next, err := o.status.Apply(t)
	if err != nil {
		return err
	}

	o.moveTo(next)
	return nil
}

func (o *Order) moveTo(next Status) {
	prev := o.status
	o.status = next
	o.record(prev, next)
}

func (o *Order) record(from, to Status) {
	o.events = append(o.events, StatusChanged{
		ID:         kernel.NewUUID(),
		OrderID:    o.id,
		UserID:     o.userID,
		From:       from,
		To:         to,
		TotalCents: o.total,
		At:         time.Now().UTC(),
	})
}

func (o *Order) checkPersisted() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.id == 0 {
		return ErrOrderIsNotPersisted
	}
	return nil
}

func (o *Order) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("userId", fmt.Errorf("%d is not greater than 0", userID))
	}
	o.userID = userID
	return nil
}

// setItems validates the lines and computes the total.
func (o *Order) setItems(items []Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	var total kernel.Cents
	for _, item := range items {
		var err error
		if total, err = total.Add(item.Subtotal()); err != nil {
			return err
		}
	}

	o.items = slices.Clone(items)
	o.total = total
	return nil
}

func validateItems(items []Item) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
