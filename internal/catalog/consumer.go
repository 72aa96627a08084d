package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"media-catalog/internal/indexer"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/snapshot"
)

// Scanner is the one-shot scan used for manual rebuilds.
type Scanner interface {
	ScanOnce(ctx context.Context) ([]snapshot.MediaRecord, error)
}

// Persister writes a record set and returns the stored snapshot.
type Persister interface {
	Persist(records []snapshot.MediaRecord) (*snapshot.Snapshot, error)
}

// Consumer applies indexer results to State. Every write to State goes
// through a Consumer, and writes are serialized. A walk that started before
// the one behind the installed snapshot is discarded, so a slow poll cannot
// undo a newer manual rebuild.
type Consumer struct {
	state   *State
	store   Persister
	scanner Scanner

	mu        sync.Mutex
	rebuildMu sync.Mutex
	// installedFrom is the start time of the walk behind the current snapshot
	installedFrom time.Time
	now           func() time.Time
}

// NewConsumer creates a consumer writing to state through store.
func NewConsumer(state *State, store Persister, scanner Scanner) *Consumer {
	return &Consumer{state: state, store: store, scanner: scanner, now: time.Now}
}

// Run applies events until the channel closes or ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, events <-chan indexer.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.Handle(ev)
		}
	}
}

// Handle applies a single event. A failed scan or persist leaves the current
// snapshot in place.
func (c *Consumer) Handle(ev indexer.Event) {
	switch ev.Kind {
	case indexer.EventSnapshot:
		_, installed, err := c.install(ev.Records, ev.StartedAt)
		if err != nil {
			logging.Error("Keeping previous catalog: %v", err)
			return
		}
		if !installed {
			logging.Info("Discarding scan started at %s: catalog already holds a newer walk",
				ev.StartedAt.Format(time.RFC3339))
			return
		}
		logging.Info("Catalog updated: %d records (scan took %v)", len(ev.Records), ev.Duration)
	case indexer.EventError:
		logging.Warn("Scan failed, serving previous catalog (%d records): %s",
			c.state.Current().Len(), ev.Message)
	}
}

// Rebuild scans, persists and installs a fresh snapshot. Concurrent rebuilds
// run one after another. State is unchanged on failure.
func (c *Consumer) Rebuild(ctx context.Context) (*snapshot.Snapshot, error) {
	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	startedAt := c.now().UTC()
	records, err := c.scanner.ScanOnce(ctx)
	if err != nil {
		metrics.CatalogRebuildsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rebuild scan: %w", err)
	}

	snap, installed, err := c.install(records, startedAt)
	if err != nil {
		metrics.CatalogRebuildsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.CatalogRebuildsTotal.WithLabelValues("success").Inc()
	if !installed {
		logging.Info("Rebuild superseded by a newer scan; catalog holds %d records", snap.Len())
		return snap, nil
	}
	logging.Info("Catalog rebuilt: %d records", len(records))
	return snap, nil
}

// install persists and swaps records from a walk that began at startedAt.
// It reports false, and returns the current snapshot, when a later walk is
// already installed. A zero startedAt always installs.
func (c *Consumer) install(records []snapshot.MediaRecord, startedAt time.Time) (*snapshot.Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !startedAt.IsZero() && startedAt.Before(c.installedFrom) {
		return c.state.Current(), false, nil
	}

	snap, err := c.store.Persist(records)
	if err != nil {
		return nil, false, err
	}
	c.state.Swap(snap)
	if startedAt.After(c.installedFrom) {
		c.installedFrom = startedAt
	}
	return snap, true, nil
}
