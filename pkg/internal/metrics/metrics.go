package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireflow",
		Name:      "http_requests_total",
		Help:      "Count of http requests handled, by method, path and status.",
	}, []string{"method", "path", "status"})

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hireflow",
		Name:      "http_request_duration_seconds",
		Help:      "Latency of http requests handled, by method and path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// AddEchoMiddleware wires request counting/latency observation and exposes
// the prometheus scrape endpoint on the same router.
func AddEchoMiddleware(e *echo.Echo) {
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if ctx.Path() == "/metrics" {
				return next(ctx)
			}

			start := time.Now()
			err := next(ctx)

			requestCount.WithLabelValues(
				ctx.Request().Method,
				ctx.Path(),
				strconv.Itoa(ctx.Response().Status),
			).Inc()
			requestLatency.WithLabelValues(
				ctx.Request().Method,
				ctx.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
