// Package metrics provides Prometheus metrics for the flair bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the bot.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Inbox metrics
	messagesFetched   prometheus.Counter
	messagesDiscarded prometheus.Counter
	requests          *prometheus.CounterVec

	// Decision metrics
	outcomes *prometheus.CounterVec

	// Delivery metrics
	replyFailures      prometheus.Counter
	flairWriteFailures prometheus.Counter

	// Run metrics
	aggregateLatency prometheus.Histogram
	batchDuration    prometheus.Histogram
	batchSize        prometheus.Gauge
	lastRunUnix      prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "flairbot",
		subsystem:        "batch",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.messagesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_fetched_total",
		Help:      "Total number of unread messages fetched from the inbox",
	})

	m.messagesDiscarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "messages_discarded_total",
		Help:      "Total number of messages discarded without a reply",
	})

	m.requests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "requests_total",
			Help:      "Total number of accepted flair requests by kind",
		},
		[]string{"kind"},
	)

	m.outcomes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "outcomes_total",
			Help:      "Total number of score-based transition outcomes by reason",
		},
		[]string{"reason"},
	)

	m.replyFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reply_failures_total",
		Help:      "Total number of failed confirmation replies",
	})

	m.flairWriteFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flair_write_failures_total",
		Help:      "Total number of failed flair writes",
	})

	m.aggregateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregate_latency_milliseconds",
		Help:      "Histogram of karma aggregation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_milliseconds",
		Help:      "Histogram of whole-batch processing duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.batchSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "size",
		Help:      "Number of accepted requests in the last batch",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_run_unix",
		Help:      "Unix timestamp of the last completed batch",
	})
}

// Handler exposes the custom registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// RecordMessagesFetched counts fetched unread messages.
func RecordMessagesFetched(n int) {
	globalManager.messagesFetched.Add(float64(n))
}

// RecordMessagesDiscarded counts messages marked read without a reply.
func RecordMessagesDiscarded(n int) {
	globalManager.messagesDiscarded.Add(float64(n))
}

// RecordRequest counts one accepted request of the given kind.
func RecordRequest(kind string) {
	globalManager.requests.WithLabelValues(kind).Inc()
}

// RecordOutcome counts one transition outcome by reason.
func RecordOutcome(reason string) {
	globalManager.outcomes.WithLabelValues(reason).Inc()
}

// RecordReplyFailure counts a failed confirmation reply.
func RecordReplyFailure() {
	globalManager.replyFailures.Inc()
}

// RecordFlairWriteFailure counts a failed flair write.
func RecordFlairWriteFailure() {
	globalManager.flairWriteFailures.Inc()
}

// RecordAggregateLatency observes one karma aggregation duration.
func RecordAggregateLatency(ms float64) {
	globalManager.aggregateLatency.Observe(ms)
}

// RecordBatchDuration observes one whole-batch duration.
func RecordBatchDuration(ms float64) {
	globalManager.batchDuration.Observe(ms)
}

// UpdateBatchSize records the number of accepted requests in a batch.
func UpdateBatchSize(n int) {
	globalManager.batchSize.Set(float64(n))
}

// UpdateLastRun records the completion time of a batch.
func UpdateLastRun(t time.Time) {
	globalManager.lastRunUnix.Set(float64(t.Unix()))
}
