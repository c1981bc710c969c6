// Package metrics provides Prometheus metrics for the tally analytics service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus metric the service exposes.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Ingestion metrics.
	submissionsAccepted  *prometheus.CounterVec
	submissionsDuplicate *prometheus.CounterVec
	submissionsMalformed *prometheus.CounterVec
	submissionsDropped   *prometheus.CounterVec

	// Analytics metrics - what really matters for the engine.
	reportsComputed   prometheus.Counter
	reportDuration    prometheus.Histogram
	snapshotLoads     prometheus.Counter
	snapshotLoadTime  prometheus.Histogram
	snapshotCacheHits prometheus.Counter
	snapshotCacheMiss prometheus.Counter

	// Store metrics.
	storeEvents       *prometheus.GaugeVec
	storeShardCount   prometheus.Gauge
	storeAppendErrors prometheus.Counter

	// Queue metrics.
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueErrors      *prometheus.CounterVec

	// Worker metrics.
	workerCount      prometheus.Gauge
	workerLatency    prometheus.Histogram
	workerErrors     prometheus.Counter
	dedupeSize       prometheus.Gauge
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager on its own registry, keeping the
// default Go collectors out of the scrape output.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tally",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)

	m.submissionsAccepted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "submissions_accepted_total",
		Help: "Submissions accepted for ingestion, by kind.",
	}, []string{"kind"})
	m.submissionsDuplicate = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "submissions_duplicate_total",
		Help: "Submissions rejected as duplicates, by kind.",
	}, []string{"kind"})
	m.submissionsMalformed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "submissions_malformed_total",
		Help: "Submissions skipped for missing required fields, by kind.",
	}, []string{"kind"})
	m.submissionsDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "submissions_dropped_total",
		Help: "Submissions dropped on queue backpressure, by kind.",
	}, []string{"kind"})

	m.reportsComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "reports_computed_total",
		Help: "Analytics reports recomputed from a snapshot.",
	})
	m.reportDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Name: "report_duration_seconds",
		Help: "Wall time of one full report computation.", Buckets: m.histogramBuckets,
	})
	m.snapshotLoads = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "snapshot_loads_total",
		Help: "Snapshot fetches from the backing store.",
	})
	m.snapshotLoadTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Name: "snapshot_load_seconds",
		Help: "Wall time of snapshot fetches from the backing store.", Buckets: m.histogramBuckets,
	})
	m.snapshotCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "snapshot_cache_hits_total",
		Help: "Snapshot reads served from the TTL cache.",
	})
	m.snapshotCacheMiss = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "snapshot_cache_misses_total",
		Help: "Snapshot reads that fell through to the store.",
	})

	m.storeEvents = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "store_events",
		Help: "Events held by the store, by kind.",
	}, []string{"kind"})
	m.storeShardCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "store_shards",
		Help: "Shard count of the in-memory event store.",
	})
	m.storeAppendErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "store_append_errors_total",
		Help: "Failed event appends.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "queue_size",
		Help: "Submissions currently queued.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "queue_capacity",
		Help: "Configured queue capacity.",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "queue_utilization",
		Help: "Queue fill ratio, 0 to 1.",
	})
	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "queue_enqueues_total",
		Help: "Successful enqueues.",
	})
	m.queueDequeues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "queue_dequeues_total",
		Help: "Successful dequeues.",
	})
	m.queueErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "queue_errors_total",
		Help: "Enqueue failures, by reason.",
	}, []string{"reason"})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "workers",
		Help: "Running ingestion workers.",
	})
	m.workerLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Name: "worker_latency_seconds",
		Help: "Per-submission processing latency.", Buckets: m.histogramBuckets,
	})
	m.workerErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "worker_errors_total",
		Help: "Submissions that failed processing.",
	})
	m.dedupeSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "dedupe_entries",
		Help: "Event ids tracked by the deduper.",
	})
	m.systemMemory = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "system_memory_bytes",
		Help: "Allocated heap bytes.",
	})
	m.systemGoroutines = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Name: "system_goroutines",
		Help: "Live goroutines.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Name: "http_requests_total",
		Help: "HTTP requests, by endpoint and status class.",
	}, []string{"endpoint", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Name: "http_request_duration_seconds",
		Help: "HTTP request latency, by endpoint.", Buckets: m.histogramBuckets,
	}, []string{"endpoint"})
}

// Handler returns the scrape handler for the manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Handler returns the scrape handler for the global manager.
func Handler() http.Handler { return globalManager.Handler() }

// Package-level helpers over the global manager.

// RecordSubmissionAccepted counts a submission accepted for ingestion.
func RecordSubmissionAccepted(kind string) {
	globalManager.submissionsAccepted.WithLabelValues(kind).Inc()
}

// RecordSubmissionDuplicate counts a submission rejected as a duplicate.
func RecordSubmissionDuplicate(kind string) {
	globalManager.submissionsDuplicate.WithLabelValues(kind).Inc()
}

// RecordSubmissionMalformed counts a submission skipped for missing fields.
func RecordSubmissionMalformed(kind string) {
	globalManager.submissionsMalformed.WithLabelValues(kind).Inc()
}

// RecordSubmissionDropped counts a submission dropped on backpressure.
func RecordSubmissionDropped(kind string) {
	globalManager.submissionsDropped.WithLabelValues(kind).Inc()
}

// RecordReportComputed counts one full report recomputation.
func RecordReportComputed() {
	globalManager.reportsComputed.Inc()
}

// RecordReportDuration records the wall time of one report computation.
func RecordReportDuration(seconds float64) {
	globalManager.reportDuration.Observe(seconds)
}

// RecordSnapshotLoad records a snapshot fetch from the backing store.
func RecordSnapshotLoad(seconds float64) {
	globalManager.snapshotLoads.Inc()
	globalManager.snapshotLoadTime.Observe(seconds)
}

// RecordSnapshotCacheHit counts a snapshot read served from the TTL cache.
func RecordSnapshotCacheHit() {
	globalManager.snapshotCacheHits.Inc()
}

// RecordSnapshotCacheMiss counts a snapshot read that hit the store.
func RecordSnapshotCacheMiss() {
	globalManager.snapshotCacheMiss.Inc()
}

// UpdateStoreEvents sets the number of stored events of one kind.
func UpdateStoreEvents(kind string, n int) {
	globalManager.storeEvents.WithLabelValues(kind).Set(float64(n))
}

// UpdateStoreShardCount sets the in-memory store shard count.
func UpdateStoreShardCount(n int) {
	globalManager.storeShardCount.Set(float64(n))
}

// RecordStoreAppendError counts a failed event append.
func RecordStoreAppendError() {
	globalManager.storeAppendErrors.Inc()
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(n int) {
	globalManager.queueSize.Set(float64(n))
}

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(n int) {
	globalManager.queueCapacity.Set(float64(n))
}

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(r float64) {
	globalManager.queueUtilization.Set(r)
}

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue counts a successful dequeue.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueError counts an enqueue failure by reason.
func RecordQueueError(reason string) {
	globalManager.queueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(n int) {
	globalManager.workerCount.Set(float64(n))
}

// RecordWorkerLatency records one submission's processing latency.
func RecordWorkerLatency(seconds float64) {
	globalManager.workerLatency.Observe(seconds)
}

// RecordWorkerError counts a submission that failed processing.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateDedupeSize sets the number of tracked event ids.
func UpdateDedupeSize(n int64) {
	globalManager.dedupeSize.Set(float64(n))
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemory.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the live goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutines.Set(float64(n))
}

// RecordHTTPRequest counts a handled request by endpoint and status class.
func RecordHTTPRequest(endpoint, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, status).Inc()
}

// RecordHTTPRequestDuration records request latency by endpoint.
func RecordHTTPRequestDuration(endpoint string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}
