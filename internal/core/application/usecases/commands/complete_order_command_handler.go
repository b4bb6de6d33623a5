package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

type CompleteOrderCommandHandler struct {
	uowFactory TransitionUoWFactory
}

func NewCompleteOrderCommandHandler(uowFactory TransitionUoWFactory) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle moves a SHIPPED order to COMPLETED. Completing twice fails with errs.ErrInvalidState.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return advanceOrder(ctx, h.uowFactory, cmd.OrderID(), order.Complete)
}
