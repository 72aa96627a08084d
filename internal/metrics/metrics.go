package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_indexer_runs_total",
			Help: "Total number of indexer scan attempts",
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_indexer_errors_total",
			Help: "Total number of indexer scan attempts that produced an error event",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_indexer_last_run_timestamp",
			Help: "Unix timestamp of the last successful scan",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_indexer_last_run_duration_seconds",
			Help: "Duration of the last successful scan in seconds",
		},
	)

	IndexerLastRunRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_indexer_last_run_records",
			Help: "Number of records produced by the last successful scan",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_indexer_running",
			Help: "Whether a scan is currently running (1 = running, 0 = idle)",
		},
	)
)

// Scanner metrics
var (
	ScannerFilesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scanner_files_scanned_total",
			Help: "Total number of regular files turned into catalog records",
		},
	)

	ScannerEntryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_scanner_entry_errors_total",
			Help: "Total number of entries skipped or partially read during a scan",
		},
		[]string{"stage"}, // "walk", "stat", "probe", "hash"
	)

	ScannerInvalidTokens = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scanner_invalid_tokens_total",
			Help: "Total number of filename tokens that could not be classified as tags",
		},
	)

	ScannerParallelWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_scanner_parallel_workers",
			Help: "Number of workers used by the last scan",
		},
	)

	ScannerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_catalog_scanner_duration_seconds",
			Help:    "Full scan duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)

// Snapshot store metrics
var (
	SnapshotOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_snapshot_operations_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"operation", "status"},
	)

	SnapshotOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_snapshot_operation_duration_seconds",
			Help:    "Snapshot store operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	SnapshotSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_snapshot_size_bytes",
			Help: "Size of the last written snapshot file in bytes",
		},
	)
)

// Catalog metrics
var (
	CatalogRecordsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_records_total",
			Help: "Number of records in the live snapshot by media type",
		},
		[]string{"type"},
	)

	CatalogDistinctTags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_distinct_tags",
			Help: "Number of distinct normalized tags in the live snapshot",
		},
	)

	CatalogGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_generation",
			Help: "Number of snapshots installed since startup",
		},
	)

	CatalogSnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_snapshot_age_seconds",
			Help: "Age of the live snapshot in seconds",
		},
	)

	CatalogRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_rebuilds_total",
			Help: "Total number of manual rebuilds",
		},
		[]string{"status"},
	)
)

// Search metrics
var (
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_search_queries_total",
			Help: "Total number of search requests",
		},
		[]string{"status"}, // "success", "invalid"
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_catalog_search_duration_seconds",
			Help:    "Search evaluation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	SearchMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_catalog_search_matches",
			Help:    "Number of records matched per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retry attempts after a stale file handle",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_paused",
			Help: "Whether scanning is paused for memory pressure (1 = paused)",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_memory_pauses_total",
			Help: "Total number of times scanning paused for memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version", "schema_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion, schemaVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion, schemaVersion).Set(1)
}
