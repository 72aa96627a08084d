package indexer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/snapshot"
)

const (
	// Default polling interval between full scans
	defaultPollInterval = 30 * time.Second

	// Default capacity of the event channel
	defaultBuffer = 4
)

// ScanFunc produces a full record set for the media root.
type ScanFunc func(ctx context.Context) ([]snapshot.MediaRecord, error)

// State is the coarse indexer state reported in health output.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateError
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// EventKind distinguishes scan outcomes.
type EventKind int

const (
	EventSnapshot EventKind = iota
	EventError
)

// Event is emitted once per scan attempt of the polling loop.
type Event struct {
	Kind      EventKind
	Records   []snapshot.MediaRecord
	StartedAt time.Time
	ScannedAt time.Time
	Duration  time.Duration
	Err       error
	Message   string
}

// Config controls the polling loop.
type Config struct {
	PollInterval time.Duration
	Buffer       int

	// SkipInitialScan waits one interval before the first scan. Set it when
	// the boot snapshot is itself a fresh walk.
	SkipInitialScan bool
}

// DefaultConfig returns the default polling configuration.
func DefaultConfig() Config {
	return Config{PollInterval: defaultPollInterval, Buffer: defaultBuffer}
}

// Indexer runs the scan function immediately and then on every poll tick,
// delivering results to a single consumer over a bounded channel.
type Indexer struct {
	scan   ScanFunc
	config Config

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	events  chan Event
	started bool

	startTime time.Time
	running   atomic.Int32
	failed    atomic.Bool

	statusMu     sync.RWMutex
	lastScan     time.Time
	lastDuration time.Duration
	lastRecords  int
	lastError    string
}

// HealthStatus contains indexer information for health checks.
type HealthStatus struct {
	State        string    `json:"state"`
	StartTime    time.Time `json:"startTime"`
	Uptime       string    `json:"uptime"`
	PollInterval string    `json:"pollInterval"`
	LastScan     time.Time `json:"lastScan,omitempty"`
	LastDuration string    `json:"lastDuration,omitempty"`
	LastRecords  int       `json:"lastRecords"`
	LastError    string    `json:"lastError,omitempty"`
}

// New creates a new Indexer. Zero config values fall back to the defaults.
func New(scan ScanFunc, config Config) *Indexer {
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.Buffer <= 0 {
		config.Buffer = defaultBuffer
	}
	return &Indexer{
		scan:      scan,
		config:    config,
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
}

// Start spawns the polling loop and returns its event channel. The channel
// is closed when the loop exits. Calling Start again returns the same channel.
func (idx *Indexer) Start(ctx context.Context) <-chan Event {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.started {
		return idx.events
	}
	idx.started = true

	ctx, idx.cancel = context.WithCancel(ctx)
	idx.events = make(chan Event, idx.config.Buffer)

	logging.Info("Indexer started (poll interval %v)", idx.config.PollInterval)
	go idx.run(ctx, idx.events)

	return idx.events
}

// Stop requests the loop to exit at its next suspension point. It does not
// wait for an in-flight scan.
func (idx *Indexer) Stop() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.cancel != nil {
		idx.cancel()
	}
}

// Wait blocks until the loop goroutine has exited. It returns immediately if
// the loop was never started.
func (idx *Indexer) Wait() {
	idx.mu.Lock()
	started := idx.started
	idx.mu.Unlock()
	if started {
		<-idx.done
	}
}

// State reports whether a scan is running or the last scan failed.
func (idx *Indexer) State() State {
	if idx.running.Load() > 0 {
		return StateScanning
	}
	if idx.failed.Load() {
		return StateError
	}
	return StateIdle
}

// ScanOnce runs a single synchronous scan outside the polling loop.
func (idx *Indexer) ScanOnce(ctx context.Context) ([]snapshot.MediaRecord, error) {
	ev := idx.runScan(ctx)
	if ev.Kind == EventError {
		return nil, ev.Err
	}
	return ev.Records, nil
}

// GetHealthStatus returns detailed indexer status.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.statusMu.RLock()
	defer idx.statusMu.RUnlock()

	status := HealthStatus{
		State:        idx.State().String(),
		StartTime:    idx.startTime,
		Uptime:       time.Since(idx.startTime).Round(time.Second).String(),
		PollInterval: idx.config.PollInterval.String(),
		LastScan:     idx.lastScan,
		LastRecords:  idx.lastRecords,
		LastError:    idx.lastError,
	}
	if !idx.lastScan.IsZero() {
		status.LastDuration = idx.lastDuration.String()
	}
	return status
}

func (idx *Indexer) run(ctx context.Context, events chan<- Event) {
	defer close(idx.done)
	defer close(events)
	defer logging.Info("Indexer stopped")

	ticker := time.NewTicker(idx.config.PollInterval)
	defer ticker.Stop()

	if idx.config.SkipInitialScan && !waitTick(ctx, ticker) {
		return
	}

	for {
		ev, ok := idx.scanAsync(ctx)
		if !ok {
			return
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}

		if !waitTick(ctx, ticker) {
			return
		}
	}
}

// waitTick reports false if ctx ends before the next tick.
func waitTick(ctx context.Context, ticker *time.Ticker) bool {
	select {
	case <-ticker.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// scanAsync runs one scan on its own goroutine so cancellation never waits
// on a slow walk. The result channel is buffered so an abandoned scan can
// still finish and exit.
func (idx *Indexer) scanAsync(ctx context.Context) (Event, bool) {
	result := make(chan Event, 1)
	go func() {
		result <- idx.runScan(ctx)
	}()

	select {
	case ev := <-result:
		if ctx.Err() != nil {
			return Event{}, false
		}
		return ev, true
	case <-ctx.Done():
		return Event{}, false
	}
}

func (idx *Indexer) runScan(ctx context.Context) Event {
	idx.running.Add(1)
	metrics.IndexerIsRunning.Set(1)
	defer func() {
		if idx.running.Add(-1) == 0 {
			metrics.IndexerIsRunning.Set(0)
		}
	}()

	metrics.IndexerRunsTotal.Inc()
	start := time.Now()
	records, err := idx.scan(ctx)
	duration := time.Since(start)
	scannedAt := time.Now().UTC()

	metrics.IndexerLastRunTimestamp.Set(float64(scannedAt.Unix()))
	metrics.IndexerLastRunDuration.Set(duration.Seconds())

	idx.statusMu.Lock()
	defer idx.statusMu.Unlock()
	idx.lastScan = scannedAt
	idx.lastDuration = duration

	if err != nil {
		metrics.IndexerErrors.Inc()
		idx.failed.Store(true)
		idx.lastError = err.Error()
		logging.Error("Scan failed after %v: %v", duration, err)
		return Event{
			Kind:      EventError,
			StartedAt: start.UTC(),
			ScannedAt: scannedAt,
			Duration:  duration,
			Err:       err,
			Message:   err.Error(),
		}
	}

	metrics.IndexerLastRunRecords.Set(float64(len(records)))
	idx.failed.Store(false)
	idx.lastError = ""
	idx.lastRecords = len(records)
	logging.Debug("Scan produced %d records in %v", len(records), duration)

	return Event{
		Kind:      EventSnapshot,
		Records:   records,
		StartedAt: start.UTC(),
		ScannedAt: scannedAt,
		Duration:  duration,
	}
}
