// Package handlers provides HTTP request handlers for the media catalog API.
//
// It includes handlers for:
//   - Tag and attribute search over the live snapshot
//   - Manual index rebuilds
//   - Health, liveness and readiness probes
//   - Version information and Prometheus metrics
package handlers
