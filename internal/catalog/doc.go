// Package catalog holds the live snapshot and the consumer that updates it.
//
// State is an atomically swapped pointer to an immutable snapshot. Queries
// call Current and work on whatever generation they got; a concurrent swap
// replaces the pointer and never mutates the old snapshot.
//
// Consumer is the single writer. For every snapshot event from the indexer
// it persists the records and then swaps State. Error events and persist
// failures are logged and the previous snapshot stays in service. Rebuild
// runs the same persist-then-swap sequence for a manual trigger.
package catalog
