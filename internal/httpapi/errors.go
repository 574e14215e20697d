package httpapi

import (
	"encoding/json"
	"net/http"

	"leadgen-engine/internal/store"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
	// Partial holds the counts a batch gathered before it failed.
	Partial any `json:"partial,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeAPIError(w, r, status, code, message, nil)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code, message string, partial any) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	e.Partial = partial
	WriteJSON(w, status, e)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	batchError(w, r, err, nil)
}

// batchError reports err with the partial result of the batch. A store that
// cannot be read or written is a 503.
func batchError(w http.ResponseWriter, r *http.Request, err error, partial any) {
	if store.IsPersistence(err) {
		writeAPIError(w, r, http.StatusServiceUnavailable, "persistence_failure", err.Error(), partial)
		return
	}
	writeAPIError(w, r, http.StatusInternalServerError, "internal_error", err.Error(), partial)
}
