package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/services"
	"orders/internal/pkg/errs"
)

// CreateOrderCommandHandler prices the requested lines against the current catalog
// and stores the order with all of its items in one transaction.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(userID, lines)
//
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown user or product
//	}
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	pricer     services.OrderPricer
}

func NewCreateOrderCommandHandler(uowFactory CreateOrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricer:     services.NewOrderPricer(),
	}
}

// Handle returns the persisted order including its store-assigned id and total.
// Nothing is written unless every line could be priced.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	exists, err := uow.UserRepository().Exists(ctx, cmd.UserID())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("user", cmd.UserID())
	}

	found, err := uow.ProductRepository().GetMany(ctx, cmd.ProductIDs())
	if err != nil {
		return nil, err
	}

	o, err := h.pricer.Price(cmd.UserID(), cmd.Lines(), found)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
