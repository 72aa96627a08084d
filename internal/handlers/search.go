package handlers

import (
	"net/http"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/search"
)

// Search answers GET /api/v1/media against the live snapshot.
//
//	GET /api/v1/media?tags=sunset,beach&attributes[camera]=alpha&page=2&pageSize=30
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query, err := search.ParseParams(r.URL.Query())
	if err != nil {
		metrics.SearchQueriesTotal.WithLabelValues("invalid").Inc()
		logging.Debug("Rejected search %q: %v", r.URL.RawQuery, err)
		writeJSONError(w, codeValidationFailed, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := search.Search(h.state.Current(), query)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchMatches.Observe(float64(result.Total))
	metrics.SearchQueriesTotal.WithLabelValues("success").Inc()

	writeJSONResponse(w, http.StatusOK, result)
}
