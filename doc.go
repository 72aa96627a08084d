// Package main provides the entry point for the media catalog server.
//
// The server catalogs media files beneath a root directory, derives tags and
// attributes from their filenames and answers filtered, paginated queries
// against an in-memory snapshot that a background indexer keeps fresh.
//
// # Application Lifecycle
//
//  1. Configuration Loading: defaults, optional catalog.toml, CATALOG_* env
//  2. Snapshot Loading: the cached index.json is served when its schema
//     version matches; otherwise the media root is scanned before the
//     server accepts traffic
//  3. Component Initialization:
//     - Indexer: rescans the media root every poll interval
//     - Catalog consumer: persists and installs each new snapshot
//     - Metrics Collector: publishes catalog gauges every minute
//  4. HTTP Server Setup: routes, request logging and metrics middleware
//  5. Graceful Shutdown: SIGINT/SIGTERM stops the indexer first, then drains
//     the HTTP servers
//
// A failed scan or persist never replaces the live snapshot; stale results
// keep being served until a later scan succeeds.
//
// # HTTP Server
//
//  1. Main Server (default port 8080):
//     - GET  /api/v1/media          search by tags and attributes
//     - POST /api/v1/index/rebuild  queue a full rescan
//     - GET  /health, /healthz, /livez, /readyz, /version
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Liveness endpoint (/health)
//
// # Configuration
//
// Every key can be set in catalog.toml or through the environment:
//
//   - CATALOG_MEDIA_ROOT: directory to catalog (required)
//   - CATALOG_CACHE_DIR: snapshot directory (default: $XDG_CACHE_HOME/media-catalog)
//   - CATALOG_PORT: main HTTP server port (default: 8080)
//   - CATALOG_METRICS_PORT: metrics server port (default: 9090)
//   - CATALOG_METRICS_ENABLED: enable metrics server (default: true)
//   - CATALOG_POLL_INTERVAL: rescan interval (default: 30s)
//   - CATALOG_SCAN_MODE: filename or raw (default: filename)
//   - CATALOG_PROBE_DIMENSIONS, CATALOG_HASH_CONTENT: optional enrichment
//   - CATALOG_LOG_LEVEL: debug/info/warn/error
//   - CATALOG_CONFIG: explicit TOML file path
//
// # Related Packages
//
//   - [media-catalog/internal/scanner]: filesystem walk and record building
//   - [media-catalog/internal/snapshot]: versioned, atomically written cache
//   - [media-catalog/internal/indexer]: polling loop and scan events
//   - [media-catalog/internal/catalog]: live snapshot and its single writer
//   - [media-catalog/internal/search]: tag and attribute filtering
//   - [media-catalog/internal/handlers]: HTTP request handlers
//   - [media-catalog/internal/startup]: configuration and startup logging
package main
