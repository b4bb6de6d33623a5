package ports

import (
	"context"

	"orders/internal/core/domain/model/order"
)

type PaymentRepository interface {
	// Add inserts the payment. A second payment for the same order fails with
	// order.ErrAlreadyPaid.
	Add(ctx context.Context, payment *order.Payment) error

	// GetByOrderID returns (nil, nil) when the order has no payment.
	GetByOrderID(ctx context.Context, orderID int64) (*order.Payment, error)
}
