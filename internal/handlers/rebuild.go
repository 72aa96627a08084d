package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"media-catalog/internal/logging"
)

const (
	rebuildStatusQueued  = "queued"
	rebuildStatusRunning = "running"

	maxRebuildBody = 64 << 10
)

type rebuildRequest struct {
	// Force starts a new scan even when one is already in flight.
	Force bool `json:"force"`
}

type rebuildJob struct {
	id        string
	startedAt time.Time
}

// RebuildResponse acknowledges a rebuild request.
type RebuildResponse struct {
	Status    string    `json:"status"`
	JobID     string    `json:"jobId"`
	StartedAt time.Time `json:"startedAt"`
}

// RebuildIndex answers POST /api/v1/index/rebuild. The scan runs in the
// background; the live snapshot is replaced only if it succeeds.
//
// A request without force joins a rebuild that is already running.
func (h *Handlers) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	var req rebuildRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeJSONError(w, codeValidationFailed, err.Error(), http.StatusBadRequest)
		return
	}

	job, status := h.enqueueRebuild(req.Force)
	writeJSONResponse(w, http.StatusAccepted, RebuildResponse{
		Status:    status,
		JobID:     job.id,
		StartedAt: job.startedAt,
	})
}

func (h *Handlers) enqueueRebuild(force bool) (*rebuildJob, string) {
	h.rebuildMu.Lock()
	defer h.rebuildMu.Unlock()

	if h.activeJob != nil && !force {
		return h.activeJob, rebuildStatusRunning
	}

	job := &rebuildJob{id: uuid.NewString(), startedAt: time.Now().UTC()}
	h.activeJob = job
	h.rebuilds.Add(1)
	go h.runRebuild(job)

	logging.Info("Rebuild job %s queued (force=%t)", job.id, force)
	return job, rebuildStatusQueued
}

func (h *Handlers) runRebuild(job *rebuildJob) {
	defer h.rebuilds.Done()
	defer func() {
		h.rebuildMu.Lock()
		if h.activeJob == job {
			h.activeJob = nil
		}
		h.rebuildMu.Unlock()
	}()

	snap, err := h.rebuilder.Rebuild(h.ctx)
	if err != nil {
		logging.Error("Rebuild job %s failed: %v", job.id, err)
		return
	}
	logging.Info("Rebuild job %s completed: %d records in %v",
		job.id, snap.Len(), time.Since(job.startedAt).Round(time.Millisecond))
}

// decodeOptionalJSON decodes the request body into v. An empty body leaves v
// untouched. Bodies over maxRebuildBody are rejected.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRebuildBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}
