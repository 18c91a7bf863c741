// Package metrics exposes Prometheus instrumentation for the split service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's collectors on a dedicated registry so tests
// can create isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	// SplitsComputed counts freshly computed splits.
	SplitsComputed prometheus.Counter

	// SplitsDeduplicated counts requests answered from an existing record
	// via the fingerprint short-circuit.
	SplitsDeduplicated prometheus.Counter

	// PersistFailures counts best-effort writes that failed; the response
	// still succeeded.
	PersistFailures prometheus.Counter

	// Extractions counts extraction attempts by outcome:
	// ok, not_a_receipt, empty, error.
	Extractions *prometheus.CounterVec

	// RequestDuration observes handler latency by route.
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SplitsComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "snapsplit_splits_computed_total",
			Help: "Number of splits computed from scratch.",
		}),
		SplitsDeduplicated: factory.NewCounter(prometheus.CounterOpts{
			Name: "snapsplit_splits_deduplicated_total",
			Help: "Number of split requests served from an existing record.",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "snapsplit_persist_failures_total",
			Help: "Number of split record writes that failed.",
		}),
		Extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "snapsplit_extractions_total",
			Help: "Number of receipt extraction attempts by outcome.",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "snapsplit_request_duration_seconds",
			Help:    "HTTP handler latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler serves this instance's registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
