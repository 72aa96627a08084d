package workers

import (
	"os"
	"runtime"
	"strconv"
)

// OverrideEnv names the environment variable that pins the worker count.
const OverrideEnv = "CATALOG_SCAN_WORKERS"

// Count returns the number of workers for a pool given a per-CPU multiplier.
// It respects container CPU limits via GOMAXPROCS (Go 1.19+).
//
// The multiplier adjusts for task characteristics: 1.0 suits CPU-bound work
// and 2.0 suits I/O-bound work.
//
// The limit parameter caps the worker count. Use 0 for no limit.
// A positive integer in CATALOG_SCAN_WORKERS overrides the calculation.
func Count(multiplier float64, limit int) int {
	if count, ok := Override(); ok {
		if limit > 0 && count > limit {
			return limit
		}
		return count
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// Override reports the operator-pinned worker count, if a valid one is set.
func Override() (int, bool) {
	raw := os.Getenv(OverrideEnv)
	if raw == "" {
		return 0, false
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count <= 0 {
		return 0, false
	}
	return count, true
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
// The scanner uses this for stat, probe and hash work.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
