package order

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

var (
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via Order.Pay or RestorePayment")

	// ErrAlreadyPaid is returned for every attempt to pay an order that already has
	// a payment, including attempts that lose a race to a concurrent payer.
	// It wraps errs.ErrConflict.
	ErrAlreadyPaid = fmt.Errorf("%w: order is already paid", errs.ErrConflict)
)

// Payment is the single settlement record of an order. Its amount always equals
// the order total.
type Payment struct {
	reference kernel.UUID
	orderID   int64
	amount    kernel.Cents
	paidAt    time.Time

	isConstructed bool
}

func newPayment(orderID int64, amount kernel.Cents, paidAt time.Time) *Payment {
	return &Payment{
		reference:     kernel.NewUUID(),
		orderID:       orderID,
		amount:        amount,
		paidAt:        paidAt,
		isConstructed: true,
	}
}

// RestorePayment rebuilds a payment read from the store.
func RestorePayment(reference kernel.UUID, orderID int64, amount kernel.Cents, paidAt time.Time) (*Payment, error) {
	if err := errors.Join(
		reference.Validate(),
		validateOrderID(orderID),
		amount.Validate(),
	); err != nil {
		return nil, err
	}

	return &Payment{
		reference:     reference,
		orderID:       orderID,
		amount:        amount,
		paidAt:        paidAt,
		isConstructed: true,
	}, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

// Reference is the payment's own identifier, handed back to clients.
func (p *Payment) Reference() kernel.UUID {
	return p.reference
}

func (p *Payment) OrderID() int64 {
	return p.orderID
}

func (p *Payment) Amount() kernel.Cents {
	return p.amount
}

func (p *Payment) PaidAt() time.Time {
	return p.paidAt
}

func validateOrderID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}
