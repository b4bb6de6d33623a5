package ports

import (
	"context"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// ReadModel serves denormalized, read-only views. Implementations read committed
// data only and never take locks.
type ReadModel interface {
	// OrderDetails returns the order with its items and payment.
	// Absent orders yield errs.ObjectNotFoundError.
	OrderDetails(ctx context.Context, orderID int64) (OrderView, error)

	// Revenue sums every recorded payment.
	Revenue(ctx context.Context) (RevenueView, error)

	// RevenueByUser ranks users by total paid, highest first.
	RevenueByUser(ctx context.Context, limit int) ([]UserRevenueView, error)

	// OrdersByStatus counts orders per status. Only statuses with at least one
	// order are listed, in lifecycle order (CREATED, PAID, SHIPPED, COMPLETED).
	OrdersByStatus(ctx context.Context) ([]StatusCountView, error)

	// TopProducts ranks products by quantity ordered, highest first.
	TopProducts(ctx context.Context, limit int) ([]ProductSalesView, error)
}

type OrderView struct {
	ID         int64
	UserID     int64
	Status     order.Status
	TotalCents kernel.Cents
	Items      []OrderItemView
	Payment    *PaymentView
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItemView struct {
	ProductID  int64
	Quantity   int
	PriceCents kernel.Cents
}

type PaymentView struct {
	Reference   kernel.UUID
	AmountCents kernel.Cents
	PaidAt      time.Time
}

type RevenueView struct {
	TotalCents kernel.Cents
	Payments   int64
}

type UserRevenueView struct {
	UserID     int64
	Email      string
	TotalCents kernel.Cents
	Orders     int64
}

type StatusCountView struct {
	Status order.Status
	Count  int64
}

type ProductSalesView struct {
	ProductID    int64
	Name         string
	QuantitySold int64
	RevenueCents kernel.Cents
}
