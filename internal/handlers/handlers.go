package handlers

import (
	"context"
	"sync"

	"media-catalog/internal/catalog"
	"media-catalog/internal/indexer"
	"media-catalog/internal/snapshot"
)

// Rebuilder runs a full scan and installs the result.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*snapshot.Snapshot, error)
}

// HealthReporter exposes indexer state for health checks.
type HealthReporter interface {
	GetHealthStatus() indexer.HealthStatus
}

// MemoryReporter exposes heap pressure for health checks.
type MemoryReporter interface {
	Limit() int64
	Usage() float64
	Paused() bool
}

type Handlers struct {
	ctx          context.Context
	state        *catalog.State
	rebuilder    Rebuilder
	indexer      HealthReporter
	memory       MemoryReporter
	snapshotPath string

	rebuildMu sync.Mutex
	activeJob *rebuildJob
	rebuilds  sync.WaitGroup
}

// New wires the handlers to the live catalog. ctx bounds background rebuilds.
// idx and mem may be nil.
func New(ctx context.Context, state *catalog.State, rebuilder Rebuilder, idx HealthReporter, mem MemoryReporter, snapshotPath string) *Handlers {
	return &Handlers{
		ctx:          ctx,
		state:        state,
		rebuilder:    rebuilder,
		indexer:      idx,
		memory:       mem,
		snapshotPath: snapshotPath,
	}
}

// Wait blocks until background rebuilds started by RebuildIndex finish.
func (h *Handlers) Wait() {
	h.rebuilds.Wait()
}
