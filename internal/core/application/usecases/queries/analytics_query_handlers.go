package queries

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Money amounts are returned both in cents and as a two-decimal currency value.

type GetRevenueQueryResponse struct {
	TotalCents kernel.Cents
	Total      decimal.Decimal
	Payments   int64
}

type UserRevenue struct {
	UserID     int64
	Email      string
	TotalCents kernel.Cents
	Total      decimal.Decimal
	Orders     int64
}

type StatusCount struct {
	Status order.Status
	Count  int64
}

type ProductSales struct {
	ProductID    int64
	Name         string
	QuantitySold int64
	RevenueCents kernel.Cents
	Revenue      decimal.Decimal
}

type GetRevenueQueryHandler struct {
	readModel ports.ReadModel
}

func NewGetRevenueQueryHandler(readModel ports.ReadModel) GetRevenueQueryHandler {
	return GetRevenueQueryHandler{readModel: readModel}
}

func (h GetRevenueQueryHandler) Handle(ctx context.Context, query GetRevenueQuery) (GetRevenueQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRevenueQueryResponse{}, err
	}

	view, err := h.readModel.Revenue(ctx)
	if err != nil {
		return GetRevenueQueryResponse{}, err
	}

	return GetRevenueQueryResponse{
		TotalCents: view.TotalCents,
		Total:      view.TotalCents.Decimal(),
		Payments:   view.Payments,
	}, nil
}

type GetRevenueByUserQueryHandler struct {
	readModel ports.ReadModel
}

func NewGetRevenueByUserQueryHandler(readModel ports.ReadModel) GetRevenueByUserQueryHandler {
	return GetRevenueByUserQueryHandler{readModel: readModel}
}

func (h GetRevenueByUserQueryHandler) Handle(ctx context.Context, query GetRevenueByUserQuery) ([]UserRevenue, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views, err := h.readModel.RevenueByUser(ctx, query.Limit())
	if err != nil {
		return nil, err
	}

	result := make([]UserRevenue, 0, len(views))
	for _, v := range views {
		result = append(result, UserRevenue{
			UserID:     v.UserID,
			Email:      v.Email,
			TotalCents: v.TotalCents,
			Total:      v.TotalCents.Decimal(),
			Orders:     v.Orders,
		})
	}
	return result, nil
}

type GetOrdersByStatusQueryHandler struct {
	readModel ports.ReadModel
}

func NewGetOrdersByStatusQueryHandler(readModel ports.ReadModel) GetOrdersByStatusQueryHandler {
	return GetOrdersByStatusQueryHandler{readModel: readModel}
}

// Handle reports every status in lifecycle order, including those with no orders.
func (h GetOrdersByStatusQueryHandler) Handle(ctx context.Context, query GetOrdersByStatusQuery) ([]StatusCount, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views, err := h.readModel.OrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[order.Status]int64, len(views))
	for _, v := range views {
		counts[v.Status] += v.Count
	}

	statuses := order.Statuses()
	result := make([]StatusCount, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, StatusCount{Status: s, Count: counts[s]})
	}
	return result, nil
}

type GetTopProductsQueryHandler struct {
	readModel ports.ReadModel
}

func NewGetTopProductsQueryHandler(readModel ports.ReadModel) GetTopProductsQueryHandler {
	return GetTopProductsQueryHandler{readModel: readModel}
}

func (h GetTopProductsQueryHandler) Handle(ctx context.Context, query GetTopProductsQuery) ([]ProductSales, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	views, err := h.readModel.TopProducts(ctx, query.Limit())
	if err != nil {
		return nil, err
	}

	result := make([]ProductSales, 0, len(views))
	for _, v := range views {
		result = append(result, ProductSales{
			ProductID:    v.ProductID,
			Name:         v.Name,
			QuantitySold: v.QuantitySold,
			RevenueCents: v.RevenueCents,
			Revenue:      v.RevenueCents.Decimal(),
		})
	}
	return result, nil
}
