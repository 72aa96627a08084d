package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"media-catalog/internal/catalog"
	"media-catalog/internal/indexer"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/tags"
)

type fakeRebuilder struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	err     error
	snap    *snapshot.Snapshot
}

func (f *fakeRebuilder) Rebuild(ctx context.Context) (*snapshot.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.snap == nil {
		return snapshot.Empty(), nil
	}
	return f.snap, nil
}

func (f *fakeRebuilder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeHealth struct {
	status indexer.HealthStatus
}

func (f fakeHealth) GetHealthStatus() indexer.HealthStatus {
	return f.status
}

func record(path string, tagList []tags.Tag, attrs map[string]string) snapshot.MediaRecord {
	if attrs == nil {
		attrs = tags.Attributes(tagList)
	}
	return snapshot.MediaRecord{
		ID:           path,
		RelativePath: path,
		MediaType:    mediatypes.MediaTypeImage,
		Tags:         tagList,
		Attributes:   attrs,
		Filesize:     1024,
		IndexedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Version:     snapshot.SchemaVersion,
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Media: []snapshot.MediaRecord{
			record("beach_sunset.jpg", []tags.Tag{tags.NewSimple("beach"), tags.NewSimple("sunset")}, nil),
			record("city_camera-alpha.jpg", []tags.Tag{tags.NewSimple("city"), tags.NewKeyValue("camera", "alpha")}, nil),
			record("forest.jpg", []tags.Tag{tags.NewSimple("forest")}, map[string]string{"camera": "beta"}),
		},
	}
}

func newTestHandlers(t *testing.T, state *catalog.State, rebuilder Rebuilder) *Handlers {
	t.Helper()
	h := New(context.Background(), state, rebuilder, fakeHealth{status: indexer.HealthStatus{State: "idle", Uptime: "1m0s"}}, nil, "/cache/index.json")
	t.Cleanup(h.Wait)
	return h
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}
