package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeAbsent  = "absent"
	OutcomeFailed  = "failed"
)

// Metrics holds the Prometheus collectors for report aggregation.
type Metrics struct {
	// labels: provider, operation, outcome={success,absent}
	ProviderCalls *prometheus.CounterVec
	// labels: provider, operation
	ProviderDuration *prometheus.HistogramVec

	// labels: outcome={success,failed}
	Aggregations        *prometheus.CounterVec
	AggregationDuration prometheus.Histogram

	ReportRating *prometheus.GaugeVec // labels: location
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderCalls,
		m.ProviderDuration,
		m.Aggregations,
		m.AggregationDuration,
		m.ReportRating,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many
// as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_report",
			Name:      "provider_calls_total",
			Help:      "Upstream provider calls by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "surf_report",
			Name:      "provider_call_duration_seconds",
			Help:      "Upstream provider call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "operation"}),
		Aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_report",
			Name:      "aggregations_total",
			Help:      "Report aggregations by outcome.",
		}, []string{"outcome"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surf_report",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of a full report aggregation.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ReportRating: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "surf_report",
			Name:      "report_rating",
			Help:      "Overall rating of the latest report per location.",
		}, []string{"location"}),
	}
}

// ObserveProviderCall records one adapter operation. Safe on a nil receiver.
func (m *Metrics) ObserveProviderCall(provider, operation string, present bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !present {
		outcome = OutcomeAbsent
	}
	m.ProviderCalls.WithLabelValues(provider, operation, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// ObserveAggregation records one aggregation. Safe on a nil receiver.
func (m *Metrics) ObserveAggregation(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Aggregations.WithLabelValues(outcome).Inc()
	m.AggregationDuration.Observe(d.Seconds())
}

// SetRating publishes the latest rating for a location. Safe on a nil receiver.
func (m *Metrics) SetRating(locationID string, rating int) {
	if m == nil {
		return
	}
	m.ReportRating.WithLabelValues(locationID).Set(float64(rating))
}
