package handlers

import (
	"encoding/json"
	"net/http"

	"media-catalog/internal/logging"
)

const codeValidationFailed = "VALIDATION_FAILED"

// errorBody is the error envelope shared by every endpoint.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONResponse sets the content type and status before encoding v.
func writeJSONResponse(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// writeJSONError writes the error envelope with the given status code.
func writeJSONError(w http.ResponseWriter, code, message string, statusCode int) {
	writeJSONResponse(w, statusCode, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, statusCode int, status string) {
	writeJSONResponse(w, statusCode, map[string]string{"status": status})
}

// NotFound answers unmatched routes with the error envelope.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path, http.StatusNotFound)
}
