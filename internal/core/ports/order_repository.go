package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates together with their items.
type OrderRepository interface {
	// Add inserts the order and all of its items and assigns the store id to the aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get loads the order with its items. Returns errs.ObjectNotFoundError if absent.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// UpdateStatus writes aggregate.Status() only if the stored status still equals
	// expected and returns the number of affected rows (0 or 1). Zero means another
	// transaction moved the order first.
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) (int64, error)
}
