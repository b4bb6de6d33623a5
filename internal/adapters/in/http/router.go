package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter builds the echo instance with every route and middleware installed.
func NewRouter(ctx context.Context, server *Server, health HealthCheck, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, err
	}

	logger = logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(
		server.metrics.observeRequests,
		middleware.RequestLoggerWithConfig(requestLoggerConfig(logger)),
		responseTime,
		middleware.Recover(),
	)

	e.GET("/health", func(c echo.Context) error {
		if health != nil {
			if healthErr := health(c.Request().Context()); healthErr != nil {
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(server.metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// The validator is attached per route: group middleware would make echo
	// answer a wrong method on a known path with 404 instead of 405.
	api := e.Group(apiPrefix)
	api.POST("/orders", server.CreateOrder, validator)
	api.GET("/orders/:id", server.GetOrder, validator)
	api.POST("/orders/:id/pay", server.PayOrder, validator)
	api.POST("/orders/:id/ship", server.ShipOrder, validator)
	api.POST("/orders/:id/complete", server.CompleteOrder, validator)

	analytics := api.Group("/analytics")
	analytics.GET("/revenue", server.GetRevenue, validator)
	analytics.GET("/revenue/users", server.GetRevenueByUser, validator)
	analytics.GET("/orders/status", server.GetOrdersByStatus, validator)
	analytics.GET("/products/top", server.GetTopProducts, validator)

	return e, nil
}

func requestLoggerConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				level = slog.LevelWarn
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}
}

func responseTime(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		c.Response().Before(func() {
			c.Response().Header().Set("X-Response-Time", fmt.Sprintf("%dms", time.Since(start).Milliseconds()))
		})
		return next(c)
	}
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := errorResponse(err)
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed", "error", err, "path", c.Path())
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
		}
	}
}
