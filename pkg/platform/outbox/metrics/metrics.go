// Package metrics exposes the outbox relay's Prometheus series. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Relay outcomes used as the "outcome" label of locreg_outbox_relayed_total.
const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	Pending        prometheus.Gauge
	Relayed        *prometheus.CounterVec
	PublishLatency prometheus.Histogram
	Batch          prometheus.Histogram
	Poll           prometheus.Histogram
	Pruned         prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	seconds := prometheus.ExponentialBuckets(0.001, 2.5, 9)
	return &Metrics{
		Pending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "locreg_outbox_pending",
			Help: "Outbox entries not yet relayed.",
		}),
		Relayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "locreg_outbox_relayed_total",
			Help: "Outbox relay attempts by outcome.",
		}, []string{"outcome"}),
		PublishLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "locreg_outbox_publish_seconds",
			Help:    "Latency of a successful publish.",
			Buckets: seconds,
		}),
		Batch: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "locreg_outbox_batch_entries",
			Help:    "Entries fetched per non-empty poll.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		Poll: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "locreg_outbox_poll_seconds",
			Help:    "Duration of one poll cycle.",
			Buckets: seconds,
		}),
		Pruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "locreg_outbox_pruned_total",
			Help: "Relayed entries removed after the retention window.",
		}),
	}
}

func (m *Metrics) Published(took time.Duration) {
	if m == nil {
		return
	}
	m.Relayed.WithLabelValues(OutcomePublished).Inc()
	m.PublishLatency.Observe(took.Seconds())
}

func (m *Metrics) Failed() {
	if m == nil {
		return
	}
	m.Relayed.WithLabelValues(OutcomeFailed).Inc()
}

func (m *Metrics) Polled(fetched int, took time.Duration) {
	if m == nil {
		return
	}
	if fetched > 0 {
		m.Batch.Observe(float64(fetched))
	}
	m.Poll.Observe(took.Seconds())
}

func (m *Metrics) SetPending(n int64) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(n))
}

func (m *Metrics) AddPruned(n int64) {
	if m == nil {
		return
	}
	m.Pruned.Add(float64(n))
}
