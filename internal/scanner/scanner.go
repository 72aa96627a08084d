package scanner

import (
	"context"
	"crypto/sha1" //nolint:gosec // SHA-1 is a stable path identifier, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/metrics"
	"media-catalog/internal/snapshot"
	"media-catalog/internal/tags"
	"media-catalog/internal/workers"
)

// ErrRootNotFound is returned when the scan root does not exist or is not a
// directory.
var ErrRootNotFound = errors.New("media root not found")

// Mode selects how tags are derived for each record.
type Mode string

const (
	// ModeFilename parses tags and attributes from the base filename.
	ModeFilename Mode = "filename"
	// ModeRaw leaves tags and attributes empty.
	ModeRaw Mode = "raw"
)

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFilename, "":
		return ModeFilename, nil
	case ModeRaw:
		return ModeRaw, nil
	default:
		return "", fmt.Errorf("unknown scan mode %q (want %q or %q)", s, ModeFilename, ModeRaw)
	}
}

// Options configures a Scanner.
type Options struct {
	Mode Mode

	// IncludeHidden keeps files and directories whose name starts with ".".
	IncludeHidden bool

	// ProbeDimensions decodes image headers to fill in width and height.
	ProbeDimensions bool

	// HashContent fills in an xxhash64 digest of each file.
	HashContent bool

	// NumWorkers sizes the worker pool (0 = auto).
	NumWorkers int

	// ChannelBuffer is the size of the job and result channels.
	ChannelBuffer int

	Retry filesystem.RetryConfig

	// Backpressure, when set, is consulted before each file is queued.
	Backpressure Backpressure
}

// Backpressure holds the walk back while the process is short of memory.
type Backpressure interface {
	WaitIfPaused(ctx context.Context) error
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Mode:          ModeFilename,
		NumWorkers:    workers.ForIO(8),
		ChannelBuffer: 256,
		Retry:         filesystem.DefaultRetryConfig(),
	}
}

// Scanner builds media records for every regular file beneath a root.
// A Scanner holds no per-scan state and may be reused and shared.
type Scanner struct {
	root string
	opts Options
	now  func() time.Time
}

// New creates a Scanner for root.
func New(root string, opts Options) *Scanner {
	if opts.Mode == "" {
		opts.Mode = ModeFilename
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = workers.ForIO(8)
	}
	if opts.ChannelBuffer <= 0 {
		opts.ChannelBuffer = 256
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.InitialBackoff == 0 {
		opts.Retry = filesystem.DefaultRetryConfig()
	}
	return &Scanner{root: root, opts: opts, now: time.Now}
}

// Root returns the directory this scanner walks.
func (s *Scanner) Root() string {
	return s.root
}

type fileJob struct {
	path    string
	relPath string
}

type fileResult struct {
	record *snapshot.MediaRecord
	err    error
}

// scanStats counts per-scan outcomes from every worker.
type scanStats struct {
	files   atomic.Int64
	skipped atomic.Int64
	invalid atomic.Int64
}

// Scan walks the root and returns one record per regular file, sorted by
// relative path. Per-entry failures are logged and skipped. Cancelling ctx
// stops the walk between entries and returns ctx.Err().
func (s *Scanner) Scan(ctx context.Context) ([]snapshot.MediaRecord, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, s.root)
		}
		return nil, fmt.Errorf("accessing media root %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, s.root)
	}

	// WalkDir does not descend into a symlinked root
	root, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return nil, fmt.Errorf("resolving media root %s: %w", s.root, err)
	}

	start := time.Now()
	numWorkers := s.opts.NumWorkers
	metrics.ScannerParallelWorkers.Set(float64(numWorkers))
	logging.Debug("Scanning %s with %d workers", s.root, numWorkers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan fileJob, s.opts.ChannelBuffer)
	results := make(chan fileResult, s.opts.ChannelBuffer)
	indexedAt := s.now().UTC()
	stats := &scanStats{}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case results <- s.processFile(job, indexedAt, stats):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	var records []snapshot.MediaRecord
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for result := range results {
			if result.err != nil {
				stats.skipped.Add(1)
				logging.Warn("Skipping %v", result.err)
				continue
			}
			if result.record != nil {
				records = append(records, *result.record)
			}
		}
	}()

	walkErr := s.walkAndEnqueue(ctx, root, jobs, stats)
	close(jobs)
	wg.Wait()
	close(results)
	<-collectorDone

	if walkErr != nil {
		return nil, walkErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RelativePath < records[j].RelativePath
	})
	if records == nil {
		records = []snapshot.MediaRecord{}
	}

	duration := time.Since(start)
	metrics.ScannerDuration.Observe(duration.Seconds())
	logging.Info("Scan of %s complete: %d files in %v (skipped: %d, invalid tokens: %d)",
		s.root, stats.files.Load(), duration, stats.skipped.Load(), stats.invalid.Load())

	return records, nil
}

func (s *Scanner) walkAndEnqueue(ctx context.Context, root string, jobs chan<- fileJob, stats *scanStats) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}

		if err != nil {
			if path == root {
				return err
			}
			stats.skipped.Add(1)
			metrics.ScannerEntryErrors.WithLabelValues("walk").Inc()
			logging.Warn("Error accessing path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		if !s.opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			//nolint:nilerr // skip this entry, keep walking
			return nil
		}

		if s.opts.Backpressure != nil {
			if err := s.opts.Backpressure.WaitIfPaused(ctx); err != nil {
				return err
			}
		}

		select {
		case jobs <- fileJob{path: path, relPath: filepath.ToSlash(relPath)}:
		case <-ctx.Done():
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}
	return nil
}

func (s *Scanner) processFile(job fileJob, indexedAt time.Time, stats *scanStats) fileResult {
	info, err := filesystem.StatWithRetry(job.path, s.opts.Retry)
	if err != nil {
		metrics.ScannerEntryErrors.WithLabelValues("stat").Inc()
		return fileResult{err: fmt.Errorf("%s: %w", job.relPath, err)}
	}

	id := RecordID(job.relPath)
	mediaType := mediatypes.DetectFromPath(job.relPath)

	record := snapshot.MediaRecord{
		ID:           id,
		RelativePath: job.relPath,
		MediaType:    mediaType,
		Tags:         []tags.Tag{},
		Attributes:   map[string]string{},
		Filesize:     info.Size(),
		IndexedAt:    indexedAt,
	}

	if s.opts.Mode == ModeFilename {
		parsed := tags.Parse(filepath.Base(job.path))
		if len(parsed.Tags) > 0 {
			record.Tags = parsed.Tags
			record.Attributes = tags.Attributes(parsed.Tags)
		}
		if n := len(parsed.InvalidTokens); n > 0 {
			stats.invalid.Add(int64(n))
			metrics.ScannerInvalidTokens.Add(float64(n))
			logging.Debug("Invalid tag tokens in %s: %q", job.relPath, parsed.InvalidTokens)
		}
	}

	if mediaType.IsVisual() {
		record.ThumbnailPath = ThumbnailPath(id)
	}

	if s.opts.ProbeDimensions && (mediaType == mediatypes.MediaTypeImage || mediaType == mediatypes.MediaTypeGif) {
		dims, err := probeDimensions(job.path, s.opts.Retry)
		if err != nil {
			metrics.ScannerEntryErrors.WithLabelValues("probe").Inc()
			logging.Debug("Could not read dimensions of %s: %v", job.relPath, err)
		} else {
			record.Dimensions = dims
		}
	}

	if s.opts.HashContent {
		sum, err := hashContent(job.path, s.opts.Retry)
		if err != nil {
			metrics.ScannerEntryErrors.WithLabelValues("hash").Inc()
			logging.Debug("Could not hash %s: %v", job.relPath, err)
		} else {
			record.Hash = sum
		}
	}

	stats.files.Add(1)
	metrics.ScannerFilesScanned.Inc()
	return fileResult{record: &record}
}

// RecordID returns the stable identifier for a forward-slash relative path.
func RecordID(relPath string) string {
	sum := sha1.Sum([]byte(relPath)) //nolint:gosec // stable identifier
	return hex.EncodeToString(sum[:])
}

// ThumbnailPath returns the thumbnail reference served for a record id.
func ThumbnailPath(id string) string {
	return "/api/v1/media/" + id + "/thumbnail"
}
