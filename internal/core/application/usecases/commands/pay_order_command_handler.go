package commands

import (
	"context"
	"fmt"

	"orders/internal/core/domain/model/order"
)

// PayOrderCommandHandler records the single payment of an order and moves it to PAID.
//
// Repeated or concurrent attempts never create a second payment. Every attempt
// that finds the order already paid, or loses the race to pay it, fails with
// order.ErrAlreadyPaid. The payment insert and the status change commit together
// or not at all.
type PayOrderCommandHandler struct {
	uowFactory TransitionUoWFactory
}

func NewPayOrderCommandHandler(uowFactory TransitionUoWFactory) PayOrderCommandHandler {
	return PayOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the paid order.
//
// Failure modes:
//   - errs.ErrObjectNotFound: no such order
//   - order.ErrAlreadyPaid: a payment exists or a concurrent payer won
//   - errs.ErrInvalidState: the order is not CREATED
//   - errs.ErrValueIsInvalid: the amount differs from the order total
func (h *PayOrderCommandHandler) Handle(ctx context.Context, cmd PayOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	payments := uow.PaymentRepository()

	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	existing, err := payments.GetByOrderID(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, alreadyPaid(o.ID())
	}

	expected := o.Status()
	payment, err := o.Pay(cmd.Amount())
	if err != nil {
		return nil, err
	}

	affected, err := orders.UpdateStatus(ctx, o, expected)
	if err != nil {
		return nil, err
	}
	// pay is the only edge out of CREATED, so losing the update means someone paid.
	if affected == 0 {
		return nil, alreadyPaid(o.ID())
	}

	if err = payments.Add(ctx, payment); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func alreadyPaid(orderID int64) error {
	return fmt.Errorf("order %d: %w", orderID, order.ErrAlreadyPaid)
}
