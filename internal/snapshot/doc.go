// Package snapshot defines the catalog record model and persists generations
// of it as a single versioned JSON document.
//
// The document lives at <cacheDir>/index.json:
//
//	{"version":"1.0.0","generatedAt":"...","media":[{...}]}
//
// Writes go to a hidden temp file in the same directory, are fsynced and then
// renamed over index.json, so readers never see a partial file. A document
// that fails to decode, or that carries a different schema version, is
// reported as ErrCorruptCache and LoadOrRebuild replaces it with a fresh scan.
package snapshot
