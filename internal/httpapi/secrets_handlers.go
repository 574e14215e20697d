package httpapi

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"leadgen-engine/internal/config"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
	Store  func(src config.Source, secret string) error
}

type setSecretReq struct {
	Secret string `json:"secret"`
}

// Set stores the IMAP password or API key for the named source.
func (h SecretsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setSecretReq
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Secret) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "secret is required")
		return
	}

	name := chi.URLParam(r, "source")
	cfg := h.CfgVal.Load().(config.Config)
	for _, src := range cfg.Sources {
		if src.Name != name {
			continue
		}
		if err := h.Store(src, req.Secret); err != nil {
			WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store secret: "+err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteError(w, r, http.StatusNotFound, "not_found", "unknown source "+name)
}
