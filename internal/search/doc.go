// Package search answers tag and attribute queries against a catalog
// snapshot.
//
// Required tags are ANDed. Attribute filters are ORed within a name and
// ANDed across names. Matches keep catalog order, which the scanner fixes as
// relative-path order, so pages are stable between identical snapshots.
//
// Validation lives in ParseParams at the request boundary. Once a Query
// exists it is always valid, and Search has no error path.
package search
