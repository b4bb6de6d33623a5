package queries

import (
	"context"

	"orders/internal/core/ports"
)

type GetOrderQueryHandler struct {
	readModel ports.ReadModel
}

func NewGetOrderQueryHandler(readModel ports.ReadModel) GetOrderQueryHandler {
	return GetOrderQueryHandler{readModel: readModel}
}

// Handle returns errs.ObjectNotFoundError for unknown orders.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (ports.OrderView, error) {
	if err := query.Validate(); err != nil {
		return ports.OrderView{}, err
	}
	return h.readModel.OrderDetails(ctx, query.OrderID())
}
