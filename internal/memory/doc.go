// Package memory keeps the catalog within its container memory budget.
//
// The catalog holds every record in memory, and for a moment during a swap
// it holds two generations. [ConfigureFromEnv] sets GOMEMLIMIT from the
// container limit so the garbage collector works harder before the kernel
// OOM-kills the process:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ... rest of application
//	}
//
// # Environment Variables
//
//   - GOMEMLIMIT: standard Go variable; takes precedence when set.
//   - CATALOG_MEMORY_LIMIT: container limit in bytes, typically from the
//     Kubernetes Downward API (resourceFieldRef: limits.memory).
//   - CATALOG_MEMORY_RATIO: share of the limit given to the heap, between
//     0.0 and 1.0. Default 0.85.
//
// # Backpressure
//
// A [Monitor] samples heap usage. Once usage reaches the critical water mark
// the scanner's walker blocks in [Monitor.WaitIfPaused] until usage drops
// below the high water mark, so an oversized media tree slows the scan down
// instead of crashing the server.
package memory
