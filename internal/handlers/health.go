package handlers

import (
	"net/http"
	"runtime"
	"time"

	"media-catalog/internal/indexer"
	"media-catalog/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime,omitempty"`

	// Catalog info
	Records      int    `json:"records"`
	Generation   uint64 `json:"generation"`
	GeneratedAt  string `json:"generatedAt,omitempty"`
	SnapshotPath string `json:"snapshotPath"`

	Indexer *indexer.HealthStatus `json:"indexer,omitempty"`
	Memory  *MemoryStatus         `json:"memory,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// MemoryStatus reports heap usage against the soft memory limit. Scans are
// paused while Paused is true.
type MemoryStatus struct {
	LimitBytes int64   `json:"limitBytes"`
	Usage      float64 `json:"usage"`
	Paused     bool    `json:"paused"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	snap := h.state.Current()
	ready := h.state.Ready()

	response := HealthResponse{
		Ready:        ready,
		Version:      startup.Version,
		Records:      snap.Len(),
		Generation:   h.state.Generation(),
		SnapshotPath: h.snapshotPath,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if !snap.GeneratedAt.IsZero() {
		response.GeneratedAt = snap.GeneratedAt.Format(time.RFC3339)
	}

	if ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if h.indexer != nil {
		status := h.indexer.GetHealthStatus()
		response.Indexer = &status
		response.Uptime = status.Uptime
		// Stale data is still served after a failed scan.
		if ready && status.LastError != "" {
			response.Status = statusDegraded
		}
	}

	if h.memory != nil && h.memory.Limit() > 0 {
		response.Memory = &MemoryStatus{
			LimitBytes: h.memory.Limit(),
			Usage:      h.memory.Usage(),
			Paused:     h.memory.Paused(),
		}
	}

	// Return 503 only if not ready at all
	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSONResponse(w, statusCode, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only once a snapshot is installed
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.state.Ready() {
		writeJSONStatus(w, http.StatusOK, "ready")
		return
	}
	writeJSONStatus(w, http.StatusServiceUnavailable, "not_ready")
}
