package httpapi

import (
	"net/http"

	"leadgen-engine/internal/store"
)

type HealthHandler struct {
	DB *store.DB
}

// Health reports ok plus the lead counts; a store that cannot be read
// turns it into a 503.
func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	total, scored, err := h.DB.CountLeads(r.Context())
	if err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, map[string]any{
		"ok":          true,
		"totalLeads":  total,
		"scoredLeads": scored,
	})
}
