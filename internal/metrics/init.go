package metrics

// catalogMediaTypes are the media_type label values of the catalog gauges.
var catalogMediaTypes = []string{"image", "gif", "video", "audio", "pdf", "unknown"}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, stage := range []string{"walk", "stat", "probe", "hash"} {
		ScannerEntryErrors.WithLabelValues(stage)
	}

	for _, op := range []string{"load", "persist"} {
		for _, status := range []string{"success", "missing", "error"} {
			SnapshotOperationsTotal.WithLabelValues(op, status)
		}
		SnapshotOperationDuration.WithLabelValues(op)
	}

	for _, t := range catalogMediaTypes {
		CatalogRecordsTotal.WithLabelValues(t)
	}

	for _, status := range []string{"success", "error"} {
		CatalogRebuildsTotal.WithLabelValues(status)
	}

	for _, status := range []string{"success", "invalid"} {
		SearchQueriesTotal.WithLabelValues(status)
	}

	for _, op := range []string{"stat", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
