package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcomes recorded by CheckoutMetrics.
const (
	OutcomeCreated           = "created"
	OutcomeReplayed          = "replayed"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeError             = "error"
)

// CheckoutMetrics holds the checkout counters. Each instance owns its registry
// so several apps can live in one process.
type CheckoutMetrics struct {
	Registry      *prometheus.Registry
	Checkouts     *prometheus.CounterVec
	Compensations prometheus.Counter
	LatencyMS     prometheus.Histogram
	Requests      *prometheus.CounterVec
}

func NewCheckoutMetrics() *CheckoutMetrics {
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toko",
		Subsystem: "checkout",
		Name:      "total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	compensations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "toko",
		Subsystem: "checkout",
		Name:      "compensations_total",
		Help:      "Stock reservations returned after a failed checkout.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "toko",
		Subsystem: "checkout",
		Name:      "duration_ms",
		Help:      "Checkout latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toko",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "status"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(checkouts, compensations, latency, requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &CheckoutMetrics{
		Registry:      reg,
		Checkouts:     checkouts,
		Compensations: compensations,
		LatencyMS:     latency,
		Requests:      requests,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *CheckoutMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
