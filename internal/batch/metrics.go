package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Group outcomes used as metric label values.
const (
	OutcomeSaved          = "saved"
	OutcomeBelowThreshold = "below_threshold"
	OutcomeFailed         = "failed"
)

// Metrics holds the batch run's Prometheus collectors.
type Metrics struct {
	GroupsTotal   *prometheus.CounterVec
	GroupDuration *prometheus.HistogramVec
	LastRun       prometheus.Gauge
}

// NewMetrics registers the batch collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GroupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "days_to_hire",
			Name:      "groups_total",
			Help:      "Count of processed job/country groups by outcome",
		}, []string{"outcome"}),
		GroupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "days_to_hire",
			Name:      "group_duration_seconds",
			Help:      "Duration of one group's aggregation and persistence",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"outcome"}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "days_to_hire",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last statistics run finished",
		}),
	}
}

func (m *Metrics) observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GroupsTotal.WithLabelValues(outcome).Inc()
	m.GroupDuration.WithLabelValues(outcome).Observe(seconds)
}

func (m *Metrics) finished(unix float64) {
	if m == nil {
		return
	}
	m.LastRun.Set(unix)
}
