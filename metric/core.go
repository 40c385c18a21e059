// Package metric provides Prometheus-based metrics collection for semgraph
// observability. It offers a centralized registry managing both core engine
// metrics (store mutations, query execution, security rejections) and
// component-specific metrics registered by the store, caches, and guard.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all engine-level metrics (not component-specific)
type Metrics struct {
	// Store metrics
	TriplesTotal   prometheus.Gauge
	MutationsTotal *prometheus.CounterVec

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Security metrics
	RejectionsTotal *prometheus.CounterVec
	EmergencyMode   prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all engine metrics
func NewMetrics() *Metrics {
	return &Metrics{
		TriplesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semgraph",
				Subsystem: "store",
				Name:      "triples",
				Help:      "Current number of triples in the store",
			},
		),

		MutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semgraph",
				Subsystem: "store",
				Name:      "mutations_total",
				Help:      "Total number of store mutations",
			},
			[]string{"operation"},
		),

		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semgraph",
				Subsystem: "query",
				Name:      "total",
				Help:      "Total number of queries executed",
			},
			[]string{"kind", "status"},
		),

		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semgraph",
				Subsystem: "query",
				Name:      "duration_seconds",
				Help:      "Query execution duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		RejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semgraph",
				Subsystem: "security",
				Name:      "rejections_total",
				Help:      "Total number of queries rejected by the security guard",
			},
			[]string{"reason"},
		),

		EmergencyMode: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semgraph",
				Subsystem: "security",
				Name:      "emergency_mode",
				Help:      "Whether the security guard is in emergency mode (0=off, 1=on)",
			},
		),
	}
}

// RecordMutation records a store mutation by operation name.
func (m *Metrics) RecordMutation(operation string) {
	m.MutationsTotal.WithLabelValues(operation).Inc()
}

// RecordQuery records a completed query with its outcome and duration.
func (m *Metrics) RecordQuery(kind, status string, duration time.Duration) {
	m.QueriesTotal.WithLabelValues(kind, status).Inc()
	m.QueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRejection records a security rejection by reason.
func (m *Metrics) RecordRejection(reason string) {
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// SetEmergencyMode records the guard's emergency-mode state.
func (m *Metrics) SetEmergencyMode(active bool) {
	if active {
		m.EmergencyMode.Set(1)
	} else {
		m.EmergencyMode.Set(0)
	}
}

// SetTripleCount records the current store size.
func (m *Metrics) SetTripleCount(n int) {
	m.TriplesTotal.Set(float64(n))
}
