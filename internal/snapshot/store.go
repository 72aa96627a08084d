package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// FileName is the canonical snapshot file inside the cache directory.
const FileName = "index.json"

var (
	// ErrCorruptCache is returned when the snapshot file exists but is unusable.
	ErrCorruptCache = errors.New("corrupt catalog cache")

	// ErrSchemaMismatch is returned when the snapshot was written with a
	// different schema version. It also matches ErrCorruptCache.
	ErrSchemaMismatch = fmt.Errorf("%w: schema version mismatch", ErrCorruptCache)

	// ErrPersistFailure is returned when a snapshot cannot be written.
	ErrPersistFailure = errors.New("failed to persist catalog snapshot")
)

// RebuildFunc produces a fresh record set when no usable cache exists.
type RebuildFunc func() ([]MediaRecord, error)

// Store persists snapshots as a single JSON document. It assumes a single
// writer per cache directory.
type Store struct {
	dir  string
	path string
	now  func() time.Time
}

// NewStore creates a store rooted at cacheDir. The directory is created on
// the first Persist.
func NewStore(cacheDir string) *Store {
	return &Store{
		dir:  cacheDir,
		path: filepath.Join(cacheDir, FileName),
		now:  time.Now,
	}
}

// Path returns the canonical snapshot path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted snapshot. A missing file yields (nil, nil).
func (s *Store) Load() (*Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.SnapshotOperationDuration.WithLabelValues("load").Observe(time.Since(start).Seconds())
	}()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			metrics.SnapshotOperationsTotal.WithLabelValues("load", "missing").Inc()
			return nil, nil
		}
		metrics.SnapshotOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCorruptCache, s.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		metrics.SnapshotOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrCorruptCache, s.path, err)
	}

	if snap.Version != SchemaVersion {
		metrics.SnapshotOperationsTotal.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("%w: found %q, want %q", ErrSchemaMismatch, snap.Version, SchemaVersion)
	}

	for i := range snap.Media {
		if !snap.Media[i].MediaType.IsValid() {
			metrics.SnapshotOperationsTotal.WithLabelValues("load", "error").Inc()
			return nil, fmt.Errorf("%w: record %s has unknown media type %q",
				ErrCorruptCache, snap.Media[i].RelativePath, snap.Media[i].MediaType)
		}
	}

	if snap.Media == nil {
		snap.Media = []MediaRecord{}
	}

	metrics.SnapshotOperationsTotal.WithLabelValues("load", "success").Inc()
	return &snap, nil
}

// Persist wraps records in a new snapshot and writes it atomically. Readers
// of the canonical path never observe a partially written file.
func (s *Store) Persist(records []MediaRecord) (*Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.SnapshotOperationDuration.WithLabelValues("persist").Observe(time.Since(start).Seconds())
	}()

	if records == nil {
		records = []MediaRecord{}
	}

	snap := &Snapshot{
		Version:     SchemaVersion,
		GeneratedAt: s.now().UTC(),
		Media:       records,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		metrics.SnapshotOperationsTotal.WithLabelValues("persist", "error").Inc()
		return nil, fmt.Errorf("%w: encoding: %w", ErrPersistFailure, err)
	}

	if err := writeFileAtomic(s.dir, FileName, data); err != nil {
		metrics.SnapshotOperationsTotal.WithLabelValues("persist", "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistFailure, err)
	}

	metrics.SnapshotOperationsTotal.WithLabelValues("persist", "success").Inc()
	metrics.SnapshotSizeBytes.Set(float64(len(data)))
	logging.Debug("Persisted snapshot with %d records to %s (%d bytes)", len(records), s.path, len(data))

	return snap, nil
}

// LoadOrRebuild returns the persisted snapshot when it is valid. Otherwise it
// calls rebuild and persists the result. rebuild is never called when a
// valid cache exists.
func (s *Store) LoadOrRebuild(rebuild RebuildFunc) (*Snapshot, error) {
	snap, err := s.Load()
	switch {
	case err != nil:
		logging.Warn("Catalog cache unusable, rebuilding: %v", err)
	case snap == nil:
		logging.Info("No catalog cache at %s, building from scratch", s.path)
	default:
		logging.Info("Loaded catalog cache with %d records (generated %s)",
			len(snap.Media), snap.GeneratedAt.Format(time.RFC3339))
		return snap, nil
	}

	records, err := rebuild()
	if err != nil {
		return nil, fmt.Errorf("rebuilding catalog: %w", err)
	}

	return s.Persist(records)
}

// writeFileAtomic writes data to a temp file beside the target, syncs it and
// renames it into place.
func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}

	// Best effort: make the rename durable.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}
