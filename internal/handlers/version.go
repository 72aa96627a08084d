package handlers

import (
	"net/http"

	"media-catalog/internal/snapshot"
	"media-catalog/internal/startup"
)

// VersionResponse is the build information plus the snapshot schema this
// binary reads and writes.
type VersionResponse struct {
	startup.BuildInfo
	SchemaVersion string `json:"schemaVersion"`
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONResponse(w, http.StatusOK, VersionResponse{
		BuildInfo:     startup.GetBuildInfo(),
		SchemaVersion: snapshot.SchemaVersion,
	})
}
