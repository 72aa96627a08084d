// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [Load] layers three sources, later ones winning:
//
//  1. built-in defaults
//  2. a TOML file: $CATALOG_CONFIG, or ./catalog.toml when it exists
//  3. CATALOG_* environment variables (CATALOG_MEDIA_ROOT → media_root)
//
// Supported keys:
//
//   - media_root: Directory to catalog (required)
//   - cache_dir: Snapshot directory (default: $XDG_CACHE_HOME/media-catalog)
//   - port: HTTP server port (default: 8080)
//   - metrics_port: Prometheus metrics server port (default: 9090)
//   - metrics_enabled: Enable or disable the metrics server (default: true)
//   - poll_interval: Rescan interval as Go duration (default: 30s)
//   - scan_mode: "filename" parses tags from names, "raw" does not (default: filename)
//   - include_hidden: Catalog dot-files and dot-directories (default: false)
//   - probe_dimensions: Read image headers for width and height (default: false)
//   - hash_content: Store an xxhash64 of each file (default: false)
//   - log_level: debug, info, warn, error (default: info)
//   - log_health_checks: Log health check requests (default: false)
//
// # Directory Setup
//
// [LoadConfig] wraps Load with banner and configuration logging and checks:
//   - Cache directory: Required, created if missing, must be writable
//   - Media root: Checked but not created; a missing root is only fatal
//     later, when no cached snapshot exists
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	startup.LogSnapshotLoaded(store.Path(), snap.Len(), startup.SnapshotFromCache, snap.GeneratedAt, elapsed)
//	startup.LogIndexerInit(scan.Root(), config.PollInterval, workers.ForIO(8))
//
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
package startup
