package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the savings core.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration    *prometheus.HistogramVec
	transactionsPosted *prometheus.CounterVec
	reversals          prometheus.Counter
	glPublishErrors    prometheus.Counter
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	operationsTotal    *prometheus.CounterVec
	subStatusChanges   *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "savings_operation_duration_seconds",
				Help:    "Duration of account operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		transactionsPosted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savings_transactions_posted_total",
				Help: "Ledger transactions posted, by type.",
			},
			[]string{"type"},
		),
		reversals: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "savings_reversals_total",
				Help: "Transactions reversed.",
			},
		),
		glPublishErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "savings_gl_publish_errors_total",
				Help: "Failed posting-event deliveries to the general ledger.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savings_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savings_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savings_operations_total",
				Help: "Account operations processed, by outcome.",
			},
			[]string{"operation", "status"},
		),
		subStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savings_substatus_changes_total",
				Help: "Inactivity sweep sub-status transitions.",
			},
			[]string{"to"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrTransaction counts a posted ledger transaction by type.
func (m *Metrics) IncrTransaction(txType string) {
	m.transactionsPosted.WithLabelValues(txType).Inc()
}

// IncrReversal counts a transaction reversal.
func (m *Metrics) IncrReversal() {
	m.reversals.Inc()
}

// IncrGLPublishError counts a failed posting-event delivery.
func (m *Metrics) IncrGLPublishError() {
	m.glPublishErrors.Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrOperation counts an operation outcome.
func (m *Metrics) IncrOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
}

// IncrSubStatusChange counts an inactivity sweep transition.
func (m *Metrics) IncrSubStatusChange(to string) {
	m.subStatusChanges.WithLabelValues(to).Inc()
}

// CounterValue extracts the current value from a CounterVec for a label set.
func CounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// TransactionsPosted returns the cumulative posted count for a type.
func (m *Metrics) TransactionsPosted(txType string) float64 {
	return CounterValue(m.transactionsPosted, txType)
}
