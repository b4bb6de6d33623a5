package http

import (
	"time"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/services"
	"orders/internal/core/ports"
)

type CreateOrderRequest struct {
	UserID int64             `json:"userId"`
	Items  []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (r CreateOrderRequest) lines() []services.Line {
	lines := make([]services.Line, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, services.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

type PayOrderRequest struct {
	AmountCents int64 `json:"amountCents"`
}

type OrderEnvelope struct {
	Order OrderResponse `json:"order"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"userId"`
	Status     string              `json:"status"`
	TotalCents int64               `json:"totalCents"`
	Total      string              `json:"total"`
	Items      []OrderItemResponse `json:"items"`
	Payment    *PaymentResponse    `json:"payment,omitempty"`
	CreatedAt  *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time          `json:"updatedAt,omitempty"`
}

type OrderItemResponse struct {
	ProductID     int64 `json:"productId"`
	Quantity      int   `json:"quantity"`
	PriceCents    int64 `json:"priceCents"`
	SubtotalCents int64 `json:"subtotalCents"`
}

type PaymentResponse struct {
	Reference   string    `json:"reference"`
	AmountCents int64     `json:"amountCents"`
	PaidAt      time.Time `json:"paidAt"`
}

func orderFromAggregate(o *order.Order) OrderEnvelope {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemResponse{
			ProductID:     item.ProductID(),
			Quantity:      item.Quantity(),
			PriceCents:    item.Price().Int64(),
			SubtotalCents: item.Subtotal().Int64(),
		})
	}

	return OrderEnvelope{Order: OrderResponse{
		ID:         o.ID(),
		UserID:     o.UserID(),
		Status:     o.Status().String(),
		TotalCents: o.Total().Int64(),
		Total:      o.Total().String(),
		Items:      items,
	}}
}

func orderFromView(v ports.OrderView) OrderEnvelope {
	items := make([]OrderItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, OrderItemResponse{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			PriceCents:    item.PriceCents.Int64(),
			SubtotalCents: item.PriceCents.Int64() * int64(item.Quantity),
		})
	}

	resp := OrderResponse{
		ID:         v.ID,
		UserID:     v.UserID,
		Status:     v.Status.String(),
		TotalCents: v.TotalCents.Int64(),
		Total:      v.TotalCents.String(),
		Items:      items,
	}
	if !v.CreatedAt.IsZero() {
		resp.CreatedAt = &v.CreatedAt
	}
	if !v.UpdatedAt.IsZero() {
		resp.UpdatedAt = &v.UpdatedAt
	}
	if v.Payment != nil {
		resp.Payment = &PaymentResponse{
			Reference:   v.Payment.Reference.String(),
			AmountCents: v.Payment.AmountCents.Int64(),
			PaidAt:      v.Payment.PaidAt,
		}
	}
	return OrderEnvelope{Order: resp}
}

// TimedResponse wraps analytics results with the server-side execution time.
type TimedResponse struct {
	ExecutionMS int64 `json:"execution_ms"`
	Data        any   `json:"data"`
}

type RevenueResponse struct {
	TotalRevenue string `json:"total_revenue"`
	TotalCents   int64  `json:"total_cents"`
	Payments     int64  `json:"payments"`
}

type UserRevenueResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	TotalSpent string `json:"total_spent"`
	TotalCents int64  `json:"total_cents"`
	Orders     int64  `json:"orders"`
}

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ProductSalesResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TotalSold    int64  `json:"total_sold"`
	Revenue      string `json:"revenue"`
	RevenueCents int64  `json:"revenue_cents"`
}

func revenueResponse(r queries.GetRevenueQueryResponse) RevenueResponse {
	return RevenueResponse{
		TotalRevenue: r.Total.StringFixed(2),
		TotalCents:   r.TotalCents.Int64(),
		Payments:     r.Payments,
	}
}

func userRevenueResponse(rows []queries.UserRevenue) []UserRevenueResponse {
	resp := make([]UserRevenueResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, UserRevenueResponse{
			ID:         r.UserID,
			Email:      r.Email,
			TotalSpent: r.Total.StringFixed(2),
			TotalCents: r.TotalCents.Int64(),
			Orders:     r.Orders,
		})
	}
	return resp
}

func statusCountResponse(rows []queries.StatusCount) []StatusCountResponse {
	resp := make([]StatusCountResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, StatusCountResponse{Status: r.Status.String(), Count: r.Count})
	}
	return resp
}

func productSalesResponse(rows []queries.ProductSales) []ProductSalesResponse {
	resp := make([]ProductSalesResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, ProductSalesResponse{
			ID:           r.ProductID,
			Name:         r.Name,
			TotalSold:    r.QuantitySold,
			Revenue:      r.Revenue.StringFixed(2),
			RevenueCents: r.RevenueCents.Int64(),
		})
	}
	return resp
}
