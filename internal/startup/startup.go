package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"media-catalog/internal/logging"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// LoadConfig loads configuration, logs it and prepares the cache directory.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	config, err := Load()
	if err != nil {
		return nil, err
	}

	if level, ok := logging.ParseLevel(config.LogLevel); ok {
		logging.SetLevel(level)
	} else {
		logging.Warn("  Invalid log_level %q, keeping %s", config.LogLevel, logging.GetLevel())
	}

	if config.ConfigFile != "" {
		logging.Info("  Config file:         %s", config.ConfigFile)
	} else {
		logging.Info("  Config file:         (none)")
	}
	logging.Info("  MEDIA_ROOT:          %s", config.MediaRoot)
	logging.Info("  CACHE_DIR:           %s", config.CacheDir)
	logging.Info("  PORT:                %s", config.Port)
	logging.Info("  METRICS_PORT:        %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  POLL_INTERVAL:       %v", config.PollInterval)
	logging.Info("  SCAN_MODE:           %s", config.ScanMode)
	logging.Info("  INCLUDE_HIDDEN:      %v", config.IncludeHidden)
	logging.Info("  PROBE_DIMENSIONS:    %v", config.ProbeDimensions)
	logging.Info("  HASH_CONTENT:        %v", config.HashContent)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	section("DIRECTORY SETUP")

	// A missing media root is survivable while a cached snapshot exists
	if err := checkMediaRoot(config.MediaRoot); err != nil {
		logging.Warn("  Media root issue: %v", err)
	}

	if err := ensureDirectory(config.CacheDir, "cache"); err != nil {
		return nil, fmt.Errorf("cache directory error: %w", err)
	}

	logging.Debug("  Testing cache directory write access...")
	if err := testWriteAccess(config.CacheDir); err != nil {
		return nil, fmt.Errorf("cache directory is not writable (required for the snapshot): %w", err)
	}
	logging.Info("  [OK] Cache directory is writable")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Tag parsing:      %s", enabledString(config.ScanMode != "raw"))
	logging.Info("    Dimension probe:  %s", enabledString(config.ProbeDimensions))
	logging.Info("    Content hashing:  %s", enabledString(config.HashContent))
	logging.Info("    Metrics:          %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// SnapshotSource describes where the boot snapshot came from.
type SnapshotSource string

const (
	SnapshotFromCache SnapshotSource = "cache"
	SnapshotFromScan  SnapshotSource = "scan"
)

// LogSnapshotLoaded logs the catalog snapshot installed at boot.
func LogSnapshotLoaded(path string, records int, source SnapshotSource, generatedAt time.Time, duration time.Duration) {
	section("CATALOG INITIALIZATION")
	logging.Info("  Snapshot file:   %s", path)
	logging.Info("  Source:          %s", source)
	logging.Info("  Records:         %s", humanize.Comma(int64(records)))
	logging.Info("  Generated:       %s (%s)", generatedAt.Format(time.RFC3339), humanize.Time(generatedAt))
	if info, err := os.Stat(path); err == nil {
		logging.Info("  Size on disk:    %s", humanize.Bytes(uint64(info.Size())))
	}
	logging.Info("  [OK] Catalog ready in %v", duration)
}

// LogIndexerInit logs indexer initialization
func LogIndexerInit(root string, interval time.Duration, workers int) {
	section("INDEXER INITIALIZATION")
	logging.Info("  Media root:      %s", root)
	logging.Info("  Poll interval:   %v", interval)
	logging.Info("  Scan workers:    %d", workers)
	logging.Info("  Starting indexer...")
}

// LogIndexerStarted logs successful indexer start
func LogIndexerStarted() {
	logging.Info("  [OK] Indexer started")
}

// GetRoutes lists every method/path pair registered on the router, sorted
// by path.
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Subrouter prefixes and catch-all routes carry no methods
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: pathTemplate, Name: route.GetName()})
		}
		return nil
	})

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes, err
}

// LogHTTPRoutes logs the route count, and the full table grouped by prefix
// at debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("  Error walking routes: %v", err)
	}
	logging.Info("  Registered routes: %d", len(routes))

	if logging.IsDebugEnabled() {
		group := "\x00"
		for _, route := range routes {
			if g := getRouteGroup(route.Path); g != group {
				group = g
				logging.Debug("  [%s]", group)
			}
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set CATALOG_LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup names the group a path is listed under: the first segment,
// or api/<version> for API routes.
func getRouteGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if first == "api" && rest != "" {
		version, _, _ := strings.Cut(rest, "/")
		return "api/" + version
	}
	if first == "" {
		return "root"
	}
	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs the listening addresses and the catalog endpoints.
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Search:          http://localhost:%s/api/v1/media?tags=...", config.Port)
	logging.Info("  Rebuild:         POST http://localhost:%s/api/v1/index/rebuild", config.Port)
	logging.Info("  Health:          http://localhost:%s/healthz", config.Port)
	if config.MetricsEnabled {
		logging.Info("  Metrics:         http://localhost:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("")
	logging.Info("  Listening on 0.0.0.0:%s. Press Ctrl+C to stop", config.Port)
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section("SHUTDOWN INITIATED (received %s)", signal)
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// section logs a banner heading.
func section(title string, args ...interface{}) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info(title, args...)
	logging.Info("------------------------------------------------------------")
}

func printBanner() {
	banner := `
------------------------------------------------------------
                     _ _                  _        _
  _ __ ___   ___  __| (_) __ _        ___| |_ __ _| | ___   __ _
 | '_ ' _ \ / _ \/ _' | |/ _' |_____ / __| __/ _' | |/ _ \ / _' |
 | | | | | |  __/ (_| | | (_| |_____| (__| || (_| | | (_) | (_| |
 |_| |_| |_|\___|\__,_|_|\__,_|      \___|\__\__,_|_|\___/ \__, |
                                                         |___/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

// checkMediaRoot verifies the media root without creating it.
func checkMediaRoot(path string) error {
	logging.Debug("  Checking media root: %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if logging.IsDebugEnabled() {
		if entries, err := os.ReadDir(path); err == nil {
			fileCount, dirCount := 0, 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	logging.Info("  [OK] Media root is readable")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}
