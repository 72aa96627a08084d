package catalog

import (
	"sync/atomic"

	"media-catalog/internal/metrics"
	"media-catalog/internal/snapshot"
)

// State holds the snapshot currently served to queries. Readers load the
// pointer and never see a partially built snapshot; the Consumer is the only
// writer.
type State struct {
	current    atomic.Pointer[snapshot.Snapshot]
	generation atomic.Uint64
}

// NewState returns a State serving initial, or an empty snapshot if nil.
func NewState(initial *snapshot.Snapshot) *State {
	s := &State{}
	if initial != nil {
		s.Swap(initial)
	}
	return s
}

// Current returns the installed snapshot. It never returns nil.
func (s *State) Current() *snapshot.Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return snapshot.Empty()
}

// Ready reports whether any snapshot has been installed.
func (s *State) Ready() bool {
	return s.current.Load() != nil
}

// Swap installs snap as the current snapshot.
func (s *State) Swap(snap *snapshot.Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
	metrics.CatalogGeneration.Set(float64(s.generation.Add(1)))
}

// Generation counts the snapshots installed so far.
func (s *State) Generation() uint64 {
	return s.generation.Load()
}

// CatalogStats summarizes the current snapshot for the metrics collector.
func (s *State) CatalogStats() metrics.Stats {
	snap := s.Current()

	stats := metrics.Stats{
		TotalRecords:  len(snap.Media),
		RecordsByType: make(map[string]int),
		Generation:    s.Generation(),
		GeneratedAt:   snap.GeneratedAt,
	}

	distinct := make(map[string]struct{})
	for i := range snap.Media {
		record := &snap.Media[i]
		stats.RecordsByType[string(record.MediaType)]++
		for _, tag := range record.Tags {
			distinct[tag.Normalized] = struct{}{}
		}
	}
	stats.DistinctTags = len(distinct)

	return stats
}
