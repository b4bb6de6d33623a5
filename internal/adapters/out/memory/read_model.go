package memory

import (
	"cmp"
	"context"
	"slices"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// ReadModel serves the read-side views from committed rows.
type ReadModel struct {
	store *Store
}

func NewReadModel(store *Store) *ReadModel {
	return &ReadModel{store: store}
}

func (r *ReadModel) OrderDetails(_ context.Context, orderID int64) (ports.OrderView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.orders[orderID]
	if !ok {
		return ports.OrderView{}, errs.NewObjectNotFoundError("order", orderID)
	}

	view := ports.OrderView{
		ID:         row.id,
		UserID:     row.userID,
		Status:     row.status,
		TotalCents: row.total,
		Items:      make([]ports.OrderItemView, 0, len(row.items)),
		CreatedAt:  row.createdAt,
		UpdatedAt:  row.updatedAt,
	}
	for _, item := range row.items {
		view.Items = append(view.Items, ports.OrderItemView{
			ProductID:  item.ProductID(),
			Quantity:   item.Quantity(),
			PriceCents: item.Price(),
		})
	}
	if p, paid := s.payments[orderID]; paid {
		view.Payment = &ports.PaymentView{Reference: p.reference, AmountCents: p.amount, PaidAt: p.paidAt}
	}
	return view, nil
}

func (r *ReadModel) Revenue(_ context.Context) (ports.RevenueView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var view ports.RevenueView
	for _, p := range s.payments {
		view.TotalCents += p.amount
		view.Payments++
	}
	return view, nil
}

func (r *ReadModel) RevenueByUser(_ context.Context, limit int) ([]ports.UserRevenueView, error) {
	s := r.store
	s.mu.RLock()
	byUser := make(map[int64]*ports.UserRevenueView)
	for orderID, p := range s.payments {
		o := s.orders[orderID]
		user, ok := s.users[o.userID]
		if !ok {
			continue
		}
		v, ok := byUser[user.id]
		if !ok {
			v = &ports.UserRevenueView{UserID: user.id, Email: user.email}
			byUser[user.id] = v
		}
		v.TotalCents += p.amount
		v.Orders++
	}
	s.mu.RUnlock()

	views := make([]ports.UserRevenueView, 0, len(byUser))
	for _, v := range byUser {
		views = append(views, *v)
	}
	slices.SortFunc(views, func(a, b ports.UserRevenueView) int {
		return cmp.Or(cmp.Compare(b.TotalCents, a.TotalCents), cmp.Compare(a.UserID, b.UserID))
	})
	return truncate(views, limit), nil
}

func (r *ReadModel) OrdersByStatus(_ context.Context) ([]ports.StatusCountView, error) {
	s := r.store
	s.mu.RLock()
	counts := make(map[order.Status]int64)
	for _, o := range s.orders {
		counts[o.status]++
	}
	s.mu.RUnlock()

	views := make([]ports.StatusCountView, 0, len(counts))
	for status, count := range counts {
		views = append(views, ports.StatusCountView{Status: status, Count: count})
	}
	slices.SortFunc(views, func(a, b ports.StatusCountView) int {
		return cmp.Compare(a.Status, b.Status)
	})
	return views, nil
}

func (r *ReadModel) TopProducts(_ context.Context, limit int) ([]ports.ProductSalesView, error) {
	s := r.store
	s.mu.RLock()
	byProduct := make(map[int64]*ports.ProductSalesView)
	for _, o := range s.orders {
		for _, item := range o.items {
			product, ok := s.products[item.ProductID()]
			if !ok {
				continue
			}
			v, ok := byProduct[product.id]
			if !ok {
				v = &ports.ProductSalesView{ProductID: product.id, Name: product.name}
				byProduct[product.id] = v
			}
			v.QuantitySold += int64(item.Quantity())
			v.RevenueCents += item.Subtotal()
		}
	}
	s.mu.RUnlock()

	views := make([]ports.ProductSalesView, 0, len(byProduct))
	for _, v := range byProduct {
		views = append(views, *v)
	}
	slices.SortFunc(views, func(a, b ports.ProductSalesView) int {
		return cmp.Or(cmp.Compare(b.QuantitySold, a.QuantitySold), cmp.Compare(a.ProductID, b.ProductID))
	})
	return truncate(views, limit), nil
}

func truncate[T any](views []T, limit int) []T {
	if limit > 0 && len(views) > limit {
		return views[:limit]
	}
	return views
}

var _ ports.ReadModel = (*ReadModel)(nil)
