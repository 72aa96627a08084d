package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-catalog/internal/catalog"
	"media-catalog/internal/handlers"
	"media-catalog/internal/indexer"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/scanner"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/startup"
)

func writeMedia(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	}
}

func newTestRouter(t *testing.T, root string) (*catalog.State, http.Handler) {
	t.Helper()

	scan := scanner.New(root, scanner.DefaultOptions())
	store := snapshot.NewStore(t.TempDir())
	snap, _, err := loadSnapshot(t.Context(), store, scan)
	require.NoError(t, err)

	state := catalog.NewState(snap)
	idx := indexer.New(scan.Scan, indexer.DefaultConfig())
	consumer := catalog.NewConsumer(state, store, idx)

	h := handlers.New(t.Context(), state, consumer, idx, nil, store.Path())
	t.Cleanup(h.Wait)
	return state, setupRouter(h)
}

func serve(router http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, http.NoBody))
	return rec
}

func TestNewScanner(t *testing.T) {
	config := &startup.Config{MediaRoot: t.TempDir(), ScanMode: "raw", HashContent: true}

	scan, err := newScanner(config, memory.NewMonitor(memory.DefaultConfig()))
	require.NoError(t, err)
	assert.Equal(t, config.MediaRoot, scan.Root())

	config.ScanMode = "bogus"
	_, err = newScanner(config, nil)
	assert.Error(t, err)
}

func TestLoadSnapshotPrefersCache(t *testing.T) {
	root := t.TempDir()
	writeMedia(t, root, "beach_sunset.jpg")
	store := snapshot.NewStore(t.TempDir())

	first, source, err := loadSnapshot(context.Background(), store, scanner.New(root, scanner.DefaultOptions()))
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())
	assert.Equal(t, startup.SnapshotFromScan, source)

	// A second boot must not rescan: the root is gone but the cache serves.
	missing := scanner.New(filepath.Join(root, "gone"), scanner.DefaultOptions())
	second, source, err := loadSnapshot(context.Background(), store, missing)
	require.NoError(t, err)
	assert.Equal(t, startup.SnapshotFromCache, source)
	assert.Equal(t, first.Media[0].ID, second.Media[0].ID)
}

func TestLoadSnapshotColdStartMissingRoot(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())
	missing := scanner.New(filepath.Join(t.TempDir(), "gone"), scanner.DefaultOptions())

	_, _, err := loadSnapshot(context.Background(), store, missing)
	assert.ErrorIs(t, err, scanner.ErrRootNotFound)
}

func TestSetupRouterRoutes(t *testing.T) {
	root := t.TempDir()
	writeMedia(t, root, "beach_sunset.jpg", "trips/city_camera-alpha.png")
	_, router := newTestRouter(t, root)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{method: http.MethodGet, target: "/health", want: http.StatusOK},
		{method: http.MethodGet, target: "/healthz", want: http.StatusOK},
		{method: http.MethodGet, target: "/livez", want: http.StatusOK},
		{method: http.MethodHead, target: "/livez", want: http.StatusOK},
		{method: http.MethodGet, target: "/readyz", want: http.StatusOK},
		{method: http.MethodGet, target: "/version", want: http.StatusOK},
		{method: http.MethodGet, target: "/api/v1/media?tags=camera", want: http.StatusOK},
		{method: http.MethodGet, target: "/api/v1/media?tags=", want: http.StatusBadRequest},
		{method: http.MethodGet, target: "/api/v1/unknown", want: http.StatusNotFound},
		{method: http.MethodDelete, target: "/api/v1/media", want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(router, tt.method, tt.target).Code)
		})
	}
}

func TestSearchThroughRouterUsesKeyValueName(t *testing.T) {
	root := t.TempDir()
	writeMedia(t, root, "beach_sunset.jpg", "trips/city_camera-alpha.png")
	_, router := newTestRouter(t, root)

	rec := serve(router, http.MethodGet, "/api/v1/media?tags=camera")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"relativePath":"trips/city_camera-alpha.png"`)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestRebuildThroughRouterPicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	writeMedia(t, root, "beach_sunset.jpg")
	state, router := newTestRouter(t, root)
	require.Equal(t, 1, state.Current().Len())

	writeMedia(t, root, "forest_fog.webm")
	rec := serve(router, http.MethodPost, "/api/v1/index/rebuild")
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		return state.Current().Len() == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestServerTimeouts(t *testing.T) {
	srv := newServer("8080", http.NotFoundHandler())
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Positive(t, srv.WriteTimeout)
	assert.Equal(t, 60*time.Second, srv.IdleTimeout)
}

func TestMetricsServer(t *testing.T) {
	h := handlers.New(t.Context(), catalog.NewState(nil), nil, nil, nil, "")
	srv := newMetricsServer("9090", h)
	assert.Equal(t, ":9090", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "media_catalog_")
}

func TestShutdownStopsComponents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	idx := indexer.New(func(context.Context) ([]snapshot.MediaRecord, error) {
		return nil, nil
	}, indexer.Config{PollInterval: time.Hour})
	events := idx.Start(ctx)

	consumerDone := make(chan struct{})
	state := catalog.NewState(nil)
	go func() {
		defer close(consumerDone)
		catalog.NewConsumer(state, snapshot.NewStore(t.TempDir()), idx).Run(ctx, events)
	}()

	collector := metrics.NewCollector(state, time.Hour)
	collector.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		shutdown(shutdownComponents{
			cancel:       cancel,
			indexer:      idx,
			consumerDone: consumerDone,
			handlers:     handlers.New(ctx, state, nil, idx, nil, ""),
			collector:    collector,
			server:       newServer("0", http.NotFoundHandler()),
		})
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
