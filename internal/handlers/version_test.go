package handlers

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-catalog/internal/catalog"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/startup"
)

func TestGetVersion(t *testing.T) {
	h := newTestHandlers(t, catalog.NewState(nil), &fakeRebuilder{})

	rec := httptest.NewRecorder()
	h.GetVersion(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	var info VersionResponse
	decodeBody(t, rec, &info)
	assert.Equal(t, startup.Version, info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Arch)
	assert.Equal(t, snapshot.SchemaVersion, info.SchemaVersion)
}

func TestMetricsHandler(t *testing.T) {
	h := newTestHandlers(t, catalog.NewState(nil), &fakeRebuilder{})

	rec := httptest.NewRecorder()
	h.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "media_catalog_"), "custom metrics are exported")
}
