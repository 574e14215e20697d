package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/ingest"
	"leadgen-engine/internal/rank"
	"leadgen-engine/internal/store"
)

// apiSource tags leads posted directly to /ingest.
const apiSource = "api"

const defaultListLimit = 100

type LeadsHandler struct {
	DB       *store.DB
	Ingestor *ingest.Ingestor
	Scoring  *rank.Job
	Hub      *events.Hub
}

func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	leads, err := h.DB.ListLeads(r.Context(), limit)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	writeJSON(w, leads)
}

func (h LeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, ok, err := h.DB.GetLead(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "not_found", "lead not found")
		return
	}
	writeJSON(w, l)
}

// Ingest accepts a JSON array of raw leads in any of the supported field spellings.
func (h LeadsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var raws []domain.RawLead
	if err := json.NewDecoder(r.Body).Decode(&raws); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON: "+err.Error())
		return
	}
	for i := range raws {
		raws[i].Source = apiSource
	}

	res, err := h.Ingestor.Ingest(r.Context(), raws)
	if err != nil {
		batchError(w, r, err, res)
		return
	}
	if res.Admitted > 0 {
		h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeLeadsIngested, res)
	}
	writeJSON(w, res)
}

func (h LeadsHandler) Score(w http.ResponseWriter, r *http.Request) {
	res, err := h.Scoring.Run(r.Context())
	if errors.Is(err, rank.ErrScoringBusy) {
		WriteError(w, r, http.StatusConflict, "scoring_busy", err.Error())
		return
	}
	if err != nil {
		batchError(w, r, err, res)
		return
	}
	if res.ScoredCount > 0 {
		h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeLeadsScored, res)
	}
	writeJSON(w, res)
}
