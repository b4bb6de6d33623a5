package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	latencyMS   *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewMetrics uses its own registry so that several servers can live in one
// process, as they do in tests.
func NewMetrics() *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orders",
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "route"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orders",
		Subsystem: "lifecycle",
		Name:      "transitions_total",
		Help:      "Order lifecycle operations by outcome reason.",
	}, []string{"operation", "outcome"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		requests,
		latency,
		transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:    registry,
		requests:    requests,
		latencyMS:   latency,
		transitions: transitions,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// observeRequests records every request under its route template.
func (m *Metrics) observeRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
		m.latencyMS.WithLabelValues(method, route).Observe(float64(time.Since(start).Microseconds()) / 1000)
		return nil
	}
}

// observeOutcome counts one lifecycle operation; outcome is "OK" or the error reason.
func (m *Metrics) observeOutcome(operation string, err error) {
	outcome := "OK"
	if err != nil {
		_, outcome = classify(err)
	}
	m.transitions.WithLabelValues(operation, outcome).Inc()
}
