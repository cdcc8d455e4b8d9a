package bot

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Interaction outcomes recorded by the dispatcher.
const (
	outcomeHandled    = "handled"
	outcomeFailed     = "failed"
	outcomePanicked   = "panicked"
	outcomeUnknown    = "unknown"
	outcomeDMRejected = "dm_rejected"
	outcomeNotSetup   = "not_setup"
	outcomeForbidden  = "forbidden"
	outcomeIgnored    = "ignored"
)

// Interaction kinds recorded by the dispatcher.
const (
	kindCommand      = "command"
	kindAutocomplete = "autocomplete"
	kindComponent    = "component"
	kindOther        = "other"
)

// Metrics holds the Prometheus collectors for interaction handling.
// A nil *Metrics records nothing.
type Metrics struct {
	interactions *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	syncFailures prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sparrowbot",
			Name:      "interactions_total",
			Help:      "Interactions received, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sparrowbot",
			Name:      "handler_duration_seconds",
			Help:      "Time spent in interaction handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"name"}),
		syncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sparrowbot",
			Name:      "command_sync_failures_total",
			Help:      "Command sync partitions that failed to upload.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.interactions, m.latency, m.syncFailures)
	}
	return m
}

func (m *Metrics) observeInteraction(kind, outcome string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) observeLatency(name string, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) observeSyncFailure() {
	if m == nil {
		return
	}
	m.syncFailures.Inc()
}
