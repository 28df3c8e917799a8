// Package metrics holds the Prometheus collectors the service exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors; a nil *Metrics records nothing
type Metrics struct {
	Registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	seeds      *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "controlly",
			Name:      "facade_operations_total",
			Help:      "Facade operations by name and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "controlly",
			Name:      "facade_operation_duration_seconds",
			Help:      "Facade operation latency including the simulated delay.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		seeds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "controlly",
			Name:      "seed_events_total",
			Help:      "Collections seeded, by reason (absent or malformed).",
		}, []string{"collection", "reason"}),
	}
	m.Registry.MustRegister(m.operations, m.duration, m.seeds)
	return m
}

// ObserveOperation records one facade call
func (m *Metrics) ObserveOperation(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// SeedEvent records that a collection was (re)seeded
func (m *Metrics) SeedEvent(collection, reason string) {
	if m == nil {
		return
	}
	m.seeds.WithLabelValues(collection, reason).Inc()
}
