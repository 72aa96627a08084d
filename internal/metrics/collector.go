package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"media-catalog/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	CatalogStats() Stats
}

// Stats describes the live catalog snapshot.
type Stats struct {
	TotalRecords  int
	RecordsByType map[string]int
	DistinctTags  int
	Generation    uint64
	GeneratedAt   time.Time
}

// Collector refreshes the catalog gauges from a StatsProvider on an interval.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	now           func() time.Time

	started  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		now:           time.Now,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start collects once, then on every interval until Stop.
func (c *Collector) Start() {
	if c.started.CompareAndSwap(false, true) {
		go c.collectLoop()
	}
}

// Stop ends collection and waits for an in-progress collect to finish. It
// is safe to call more than once, and before Start.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	if c.started.Load() {
		<-c.done
	}
}

func (c *Collector) collectLoop() {
	defer close(c.done)
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.CatalogStats()

	for _, mediaType := range catalogMediaTypes {
		CatalogRecordsTotal.WithLabelValues(mediaType).Set(float64(stats.RecordsByType[mediaType]))
	}
	CatalogDistinctTags.Set(float64(stats.DistinctTags))
	CatalogGeneration.Set(float64(stats.Generation))

	if !stats.GeneratedAt.IsZero() {
		CatalogSnapshotAge.Set(c.now().Sub(stats.GeneratedAt).Seconds())
	}

	logging.Debug("Metrics collected: records=%d, tags=%d, generation=%d",
		stats.TotalRecords, stats.DistinctTags, stats.Generation)
}
