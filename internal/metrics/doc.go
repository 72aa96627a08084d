// Package metrics provides Prometheus instrumentation for the media catalog.
//
// All metrics are registered with promauto at package init and are prefixed
// with "media_catalog_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Indexer Metrics
//
//   - IndexerRunsTotal / IndexerErrors: scan attempts and failed attempts
//   - IndexerLastRunTimestamp / IndexerLastRunDuration / IndexerLastRunRecords
//   - IndexerIsRunning: Gauge indicating a scan is in flight
//
// ## Scanner Metrics
//
//   - ScannerFilesScanned: regular files turned into records
//   - ScannerEntryErrors: entries skipped or partially read, by stage
//   - ScannerInvalidTokens: filename tokens that failed tag classification
//   - ScannerParallelWorkers / ScannerDuration
//
// ## Snapshot and Catalog Metrics
//
//   - SnapshotOperationsTotal / SnapshotOperationDuration: load and persist
//   - SnapshotSizeBytes: size of the last written index.json
//   - CatalogRecordsTotal, CatalogDistinctTags, CatalogGeneration,
//     CatalogSnapshotAge: refreshed by the Collector
//   - CatalogRebuildsTotal: manual rebuilds by status
//
// ## Search Metrics
//
//   - SearchQueriesTotal, SearchDuration, SearchMatches
//
// # Collector
//
// The Collector polls a StatsProvider (the catalog state) on an interval so
// gauges such as the snapshot age keep moving between swaps:
//
//	c := metrics.NewCollector(state, 30*time.Second)
//	c.Start()
//	defer c.Stop()
//
// Call InitializeMetrics once at startup so every labelled series is exported
// from the first scrape.
package metrics
