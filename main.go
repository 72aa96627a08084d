package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/handlers"
	"media-catalog/internal/indexer"
	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/middleware"
	"media-catalog/internal/scanner"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/startup"
	"media-catalog/internal/workers"

	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 30 * time.Second
	collectorInterval = time.Minute
)

func main() {
	startTime := time.Now()

	// Must run before the catalog is loaded into memory
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion, snapshot.SchemaVersion)

	memMonitor := memory.NewMonitor(memory.DefaultConfig())
	memMonitor.Start()

	scan, err := newScanner(config, memMonitor)
	if err != nil {
		startup.LogFatal("Scanner configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Serve the cached snapshot if it is usable, otherwise scan before
	// accepting traffic.
	store := snapshot.NewStore(config.CacheDir)
	snap, source, err := loadSnapshot(ctx, store, scan)
	if err != nil {
		startup.LogFatal("Failed to build initial catalog: %v", err)
	}
	state := catalog.NewState(snap)

	// Initialize indexer
	startup.LogIndexerInit(scan.Root(), config.PollInterval, workers.ForIO(8))
	idx := indexer.New(scan.Scan, indexer.Config{
		PollInterval:    config.PollInterval,
		SkipInitialScan: source == startup.SnapshotFromScan,
	})
	consumer := catalog.NewConsumer(state, store, idx)

	events := idx.Start(ctx)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumer.Run(ctx, events)
	}()
	startup.LogIndexerStarted()

	collector := metrics.NewCollector(state, collectorInterval)
	collector.Start()

	// Initialize handlers
	h := handlers.New(ctx, state, consumer, idx, memMonitor, store.Path())

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	srv := newServer(config.Port, middleware.Logger(loggingConfig)(router))

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		waitForSignal()
		shutdown(shutdownComponents{
			cancel:       cancel,
			indexer:      idx,
			consumerDone: consumerDone,
			handlers:     h,
			collector:    collector,
			memory:       memMonitor,
			server:       srv,
			metrics:      metricsSrv,
		})
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-shutdownDone
}

func newScanner(config *startup.Config, backpressure scanner.Backpressure) (*scanner.Scanner, error) {
	mode, err := scanner.ParseMode(config.ScanMode)
	if err != nil {
		return nil, err
	}

	opts := scanner.DefaultOptions()
	opts.Mode = mode
	opts.IncludeHidden = config.IncludeHidden
	opts.ProbeDimensions = config.ProbeDimensions
	opts.HashContent = config.HashContent
	opts.Backpressure = backpressure

	return scanner.New(config.MediaRoot, opts), nil
}

// loadSnapshot returns the cached snapshot, or scans the media root when the
// cache is missing, corrupt or from another schema version. The source
// reports which of the two happened.
func loadSnapshot(ctx context.Context, store *snapshot.Store, scan *scanner.Scanner) (*snapshot.Snapshot, startup.SnapshotSource, error) {
	start := time.Now()
	source := startup.SnapshotFromCache

	snap, err := store.LoadOrRebuild(func() ([]snapshot.MediaRecord, error) {
		source = startup.SnapshotFromScan
		return scan.Scan(ctx)
	})
	if err != nil {
		return nil, "", err
	}

	startup.LogSnapshotLoaded(store.Path(), snap.Len(), source, snap.GeneratedAt, time.Since(start))
	return snap, source, nil
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/media", h.Search).Methods(http.MethodGet)
	api.HandleFunc("/index/rebuild", h.RebuildIndex).Methods(http.MethodPost)

	return r
}

func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())
	metricsMux.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:              ":" + port,
		Handler:           metricsMux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	signal.Stop(sigChan)

	startup.LogShutdownInitiated(sig.String())
}

type shutdownComponents struct {
	cancel       context.CancelFunc
	indexer      *indexer.Indexer
	consumerDone <-chan struct{}
	handlers     *handlers.Handlers
	collector    *metrics.Collector
	memory       *memory.Monitor
	server       *http.Server
	metrics      *http.Server
}

// shutdown stops the indexer before draining HTTP so no new snapshot is
// installed while requests finish.
func shutdown(c shutdownComponents) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Stopping indexer")
	c.indexer.Stop()
	c.indexer.Wait()
	startup.LogShutdownStepComplete("Indexer stopped")

	startup.LogShutdownStep("Cancelling background rebuilds")
	c.cancel()
	<-c.consumerDone
	c.handlers.Wait()
	startup.LogShutdownStepComplete("Catalog consumer stopped")

	startup.LogShutdownStep("Stopping metrics collector")
	c.collector.Stop()
	if c.memory != nil {
		c.memory.Stop()
	}
	startup.LogShutdownStepComplete("Metrics collector stopped")

	if c.metrics != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := c.metrics.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := c.server.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
