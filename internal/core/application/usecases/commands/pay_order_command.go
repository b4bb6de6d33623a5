package commands

import (
	"errors"
	"fmt"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrPayOrderCommandIsNotConstructed = errors.New(
	"PayOrderCommand must be created via NewPayOrderCommand constructor",
)

// PayOrderCommand requests settling an order for amountCents, which must equal the order total.
type PayOrderCommand struct { //nolint:recvcheck //using for validation
	orderID int64
	amount  kernel.Cents

	guard guard.ConstructorGuard
}

func NewPayOrderCommand(orderID int64, amountCents int64) (PayOrderCommand, error) {
	cmd := PayOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAmount(amountCents),
	); err != nil {
		return PayOrderCommand{}, err
	}

	return cmd, nil
}

func (c PayOrderCommand) Validate() error {
	return c.guard.Validate(ErrPayOrderCommandIsNotConstructed)
}

func (c PayOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c PayOrderCommand) Amount() kernel.Cents {
	return c.amount
}

func (c *PayOrderCommand) setOrderID(orderID int64) error {
	id, err := validOrderID(orderID)
	c.orderID = id
	return err
}

func (c *PayOrderCommand) setAmount(amountCents int64) error {
	amount, err := kernel.NewCents(amountCents)
	if err != nil {
		return err
	}
	c.amount = amount
	return nil
}

func validOrderID(orderID int64) (int64, error) {
	if orderID <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%d is not greater than 0", orderID))
	}
	return orderID, nil
}
