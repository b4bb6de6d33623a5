package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// ShipOrderCommandHandler moves a PAID order to SHIPPED.
type ShipOrderCommandHandler struct {
	uowFactory TransitionUoWFactory
}

func NewShipOrderCommandHandler(uowFactory TransitionUoWFactory) ShipOrderCommandHandler {
	return ShipOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns errs.ErrInvalidState unless the order is PAID and errs.ErrConflict
// when a concurrent caller shipped it first.
func (h *ShipOrderCommandHandler) Handle(ctx context.Context, cmd ShipOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return advanceOrder(ctx, h.uowFactory, cmd.OrderID(), order.Ship)
}
