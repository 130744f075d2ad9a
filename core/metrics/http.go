// Package metrics exposes HTTP request metrics for echo.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP records request latency per route and sets X-Request-Duration-ms.
type HTTP struct {
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

func NewHTTP(reg *prometheus.Registry) *HTTP {
	return &HTTP{
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		gatherer: reg,
	}
}

func (m *HTTP) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			took := time.Since(start)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(took.Milliseconds(), 10))
			m.duration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).Observe(took.Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *HTTP) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
