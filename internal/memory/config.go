package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/dustin/go-humanize"

	"media-catalog/internal/logging"
)

const (
	// LimitEnv holds the container memory limit in bytes.
	LimitEnv = "CATALOG_MEMORY_LIMIT"

	// RatioEnv holds the share of LimitEnv given to the Go heap.
	RatioEnv = "CATALOG_MEMORY_RATIO"

	// DefaultMemoryRatio leaves headroom for a second snapshot generation
	// while a swap is in progress, plus scan buffers and goroutine stacks.
	DefaultMemoryRatio = 0.85
)

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether a memory limit is in effect
	Configured bool

	// Source is "GOMEMLIMIT", LimitEnv or "none"
	Source string

	// ContainerLimit is the container memory limit in bytes (0 if not set)
	ContainerLimit int64

	// GoMemLimit is the configured GOMEMLIMIT in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets the Go soft memory limit from the container limit.
// Call it early in main, before the catalog is loaded.
//
// An explicit GOMEMLIMIT always wins. Otherwise CATALOG_MEMORY_LIMIT (bytes,
// usually from the Kubernetes Downward API) is scaled by
// CATALOG_MEMORY_RATIO, which defaults to 0.85.
func ConfigureFromEnv() ConfigResult {
	result := ConfigResult{Source: "none"}

	if goMemLimitEnv := os.Getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = "GOMEMLIMIT"
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := os.Getenv(LimitEnv)
	if memLimitStr == "" {
		logging.Debug("%s not set, GOMEMLIMIT will not be configured automatically", LimitEnv)
		return result
	}

	memLimit, err := strconv.ParseInt(memLimitStr, 10, 64)
	if err != nil || memLimit <= 0 {
		logging.Warn("Ignoring %s=%q: not a positive byte count", LimitEnv, memLimitStr)
		return result
	}
	result.ContainerLimit = memLimit

	ratio := DefaultMemoryRatio
	if ratioStr := os.Getenv(RatioEnv); ratioStr != "" {
		parsed, err := strconv.ParseFloat(ratioStr, 64)
		switch {
		case err != nil:
			logging.Warn("Failed to parse %s %q: %v, using default %.2f", RatioEnv, ratioStr, err, DefaultMemoryRatio)
		case parsed <= 0 || parsed > 1.0:
			logging.Warn("%s %q out of range (0.0-1.0), using default %.2f", RatioEnv, ratioStr, DefaultMemoryRatio)
		default:
			ratio = parsed
		}
	}
	result.Ratio = ratio

	goMemLimit := int64(float64(memLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	result.Configured = true
	result.Source = LimitEnv
	result.GoMemLimit = goMemLimit

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		humanize.IBytes(uint64(goMemLimit)), //nolint:gosec // positive above
		ratio*100,
		humanize.IBytes(uint64(memLimit)), //nolint:gosec // positive above
	)

	return result
}
