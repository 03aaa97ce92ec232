package content

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds Prometheus metrics for the aggregator.
type Metrics struct {
	SourceAttempts      *prometheus.CounterVec
	Fallbacks           *prometheus.CounterVec
	AggregationDuration *prometheus.HistogramVec
}

// NewMetrics creates aggregator metrics registered with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "content",
				Name:      "source_attempts_total",
				Help:      "Source fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "content",
				Name:      "fallbacks_total",
				Help:      "Remote failures answered from the local store",
			},
			[]string{"collection"},
		),
		AggregationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "content",
				Name:      "aggregation_duration_seconds",
				Help:      "Duration of GetContent calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"mode"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.SourceAttempts, m.Fallbacks, m.AggregationDuration)
	}

	return m
}

func (m *Metrics) observeAttempt(source string, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	m.SourceAttempts.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) observeFallback(collection string) {
	if m == nil {
		return
	}

	m.Fallbacks.WithLabelValues(collection).Inc()
}

func (m *Metrics) observeDuration(mode string, start time.Time) {
	if m == nil {
		return
	}

	m.AggregationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
