// Package http exposes the order lifecycle and analytics over a JSON API.
package http

import (
	"net/http"
	"time"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const apiPrefix = "/api/v1"

// Handlers bundles the use cases served over HTTP.
type Handlers struct {
	CreateOrder   commands.CreateOrderCommandHandler
	PayOrder      commands.PayOrderCommandHandler
	ShipOrder     commands.ShipOrderCommandHandler
	CompleteOrder commands.CompleteOrderCommandHandler

	GetOrder          queries.GetOrderQueryHandler
	GetRevenue        queries.GetRevenueQueryHandler
	GetRevenueByUser  queries.GetRevenueByUserQueryHandler
	GetOrdersByStatus queries.GetOrdersByStatusQueryHandler
	GetTopProducts    queries.GetTopProductsQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h       Handlers
	metrics *Metrics
}

func NewServer(handlers Handlers, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{h: handlers, metrics: metrics}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(req.UserID, req.lines())
	if err != nil {
		return err
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	s.metrics.observeOutcome("create", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, orderFromAggregate(o))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return err
	}

	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromView(view))
}

// PayOrder handles POST /api/v1/orders/{id}/pay.
func (s *Server) PayOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req PayOrderRequest
	if err = c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewPayOrderCommand(id, req.AmountCents)
	if err != nil {
		return err
	}

	o, err := s.h.PayOrder.Handle(c.Request().Context(), cmd)
	s.metrics.observeOutcome("pay", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromAggregate(o))
}

// ShipOrder handles POST /api/v1/orders/{id}/ship.
func (s *Server) ShipOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewShipOrderCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.ShipOrder.Handle(c.Request().Context(), cmd)
	s.metrics.observeOutcome("ship", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromAggregate(o))
}

// CompleteOrder handles POST /api/v1/orders/{id}/complete.
func (s *Server) CompleteOrder(c echo.Context) error {
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteOrderCommand(id)
	if err != nil {
		return err
	}

	o, err := s.h.CompleteOrder.Handle(c.Request().Context(), cmd)
	s.metrics.observeOutcome("complete", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderFromAggregate(o))
}

// GetRevenue handles GET /api/v1/analytics/revenue.
func (s *Server) GetRevenue(c echo.Context) error {
	start := time.Now()

	result, err := s.h.GetRevenue.Handle(c.Request().Context(), queries.NewGetRevenueQuery())
	if err != nil {
		return err
	}

	return timed(c, start, revenueResponse(result))
}

// GetRevenueByUser handles GET /api/v1/analytics/revenue/users.
func (s *Server) GetRevenueByUser(c echo.Context) error {
	start := time.Now()

	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetRevenueByUserQuery(limit)
	if err != nil {
		return err
	}

	result, err := s.h.GetRevenueByUser.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return timed(c, start, userRevenueResponse(result))
}

// GetOrdersByStatus handles GET /api/v1/analytics/orders/status.
func (s *Server) GetOrdersByStatus(c echo.Context) error {
	start := time.Now()

	result, err := s.h.GetOrdersByStatus.Handle(c.Request().Context(), queries.NewGetOrdersByStatusQuery())
	if err != nil {
		return err
	}

	return timed(c, start, statusCountResponse(result))
}

// GetTopProducts handles GET /api/v1/analytics/products/top.
func (s *Server) GetTopProducts(c echo.Context) error {
	start := time.Now()

	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetTopProductsQuery(limit)
	if err != nil {
		return err
	}

	result, err := s.h.GetTopProducts.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return timed(c, start, productSalesResponse(result))
}

func timed(c echo.Context, start time.Time, data any) error {
	return c.JSON(http.StatusOK, TimedResponse{
		ExecutionMS: time.Since(start).Milliseconds(),
		Data:        data,
	})
}

func orderIDParam(c echo.Context) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}

// limitParam returns 0 when the optional limit is absent; the ranking queries
// treat 0 as their default.
func limitParam(c echo.Context) (int, error) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("limit", err)
	}
	if limit == nil {
		return 0, nil
	}
	return *limit, nil
}
