package commands

import (
	"errors"

	"orders/internal/pkg/guard"
)

var ErrShipOrderCommandIsNotConstructed = errors.New(
	"ShipOrderCommand must be created via NewShipOrderCommand constructor",
)

// ShipOrderCommand requests moving a PAID order to SHIPPED.
type ShipOrderCommand struct { //nolint:recvcheck //using for validation
	orderID int64

	guard guard.ConstructorGuard
}

func NewShipOrderCommand(orderID int64) (ShipOrderCommand, error) {
	id, err := validOrderID(orderID)
	if err != nil {
		return ShipOrderCommand{}, err
	}

	return ShipOrderCommand{
		orderID: id,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ShipOrderCommand) Validate() error {
	return c.guard.Validate(ErrShipOrderCommandIsNotConstructed)
}

func (c ShipOrderCommand) OrderID() int64 {
	return c.orderID
}
