package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront.GO/search"
)

// Metrics counts catalog fetches per backend.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	products *prometheus.CounterVec
}

// NewMetrics registers the fetch metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "fetch_requests_total",
			Help:      "Catalog page fetches by backend, page kind and outcome.",
		}, []string{"backend", "kind", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "fetch_duration_seconds",
			Help:      "Catalog page fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "kind"}),
		products: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "fetched_products_total",
			Help:      "Products returned by catalog fetches.",
		}, []string{"backend"}),
	}
}

type instrumented struct {
	next    search.Fetcher
	backend string
	m       *Metrics
}

// Instrument records every call to next under the backend label.
func Instrument(next search.Fetcher, backend string, m *Metrics) search.Fetcher {
	return &instrumented{next: next, backend: backend, m: m}
}

func (f *instrumented) FetchProducts(ctx context.Context, req search.Request) (search.Page, error) {
	kind := "initial"
	if req.Cursor != "" {
		kind = "more"
	}
	start := time.Now()
	page, err := f.next.FetchProducts(ctx, req)
	f.m.duration.WithLabelValues(f.backend, kind).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, context.Canceled):
		outcome = "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	default:
		f.m.products.WithLabelValues(f.backend).Add(float64(len(page.Products)))
	}
	f.m.requests.WithLabelValues(f.backend, kind, outcome).Inc()
	return page, err
}
