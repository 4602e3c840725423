package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for LOC operations.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	Operations        *prometheus.CounterVec
	Rejections        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	LockWaitDuration  prometheus.Histogram
	CollectionItems   prometheus.Counter
	IdentityCacheHits prometheus.Counter
	IdentityCacheMiss prometheus.Counter
	LocsCreatedByType *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "locreg_loc_operations_total",
			Help: "Total LOC operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "locreg_loc_rejections_total",
			Help: "Total LOC operations rejected by rule",
		}, []string{"operation", "reason"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locreg_loc_operation_duration_seconds",
			Help:    "Duration of LOC operations including lock acquisition",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		LockWaitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "locreg_loc_lock_wait_seconds",
			Help:    "Time spent waiting for per-LOC serialization locks",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		CollectionItems: f.NewCounter(prometheus.CounterOpts{
			Name: "locreg_collection_items_added_total",
			Help: "Total collection items added",
		}),
		IdentityCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "locreg_identity_cache_hits_total",
			Help: "Identity LOC queries answered from cache",
		}),
		IdentityCacheMiss: f.NewCounter(prometheus.CounterOpts{
			Name: "locreg_identity_cache_misses_total",
			Help: "Identity LOC queries that scanned the account index",
		}),
		LocsCreatedByType: f.NewCounterVec(prometheus.CounterOpts{
			Name: "locreg_locs_created_total",
			Help: "Total LOCs created by type",
		}, []string{"loc_type"}),
	}
}

func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRejection(operation, reason string) {
	m.Rejections.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) ObserveLockWait(start time.Time) {
	m.LockWaitDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementItemsAdded() {
	m.CollectionItems.Inc()
}

func (m *Metrics) IncrementLocCreated(locType string) {
	m.LocsCreatedByType.WithLabelValues(locType).Inc()
}

func (m *Metrics) RecordIdentityCache(hit bool) {
	if hit {
		m.IdentityCacheHits.Inc()
		return
	}
	m.IdentityCacheMiss.Inc()
}
