// Package indexer keeps the catalog fresh by polling the media root.
//
// Start spawns a loop that scans immediately and then once per poll
// interval. Each attempt produces exactly one Event on a bounded channel:
//   - EventSnapshot carries the full record set, scan time and duration
//   - EventError carries the failure; the loop keeps polling
//
// Scans run on their own goroutine. The loop only waits on the scan, the
// channel send and the ticker, each in a select with the context, so
// cancellation takes effect at the next of those points and shutdown never
// waits on a directory walk. The event channel is closed when the loop exits.
//
// ScanOnce runs the same scan function synchronously for boot and manual
// rebuilds. The indexer never touches the snapshot store; persisting and
// installing results is the consumer's job.
package indexer
