package httpapi

import (
	"net/http"

	"leadgen-engine/internal/analytics"
)

type AnalyticsHandler struct {
	Service *analytics.Service
	// Options supplies the default windows per request so a config reload
	// applies without a restart. Nil falls back to Service.Options.
	Options func() analytics.Options
}

func (h AnalyticsHandler) opts() analytics.Options {
	if h.Options == nil {
		return h.Service.Options
	}
	return h.Options().WithDefaults()
}

func (h AnalyticsHandler) Overall(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.OverallStats(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, o)
}

func (h AnalyticsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.opts().TrendDays)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	rows, err := h.Service.Trend(r.Context(), days)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, rows)
}

func (h AnalyticsHandler) Industries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.opts().BreakdownLimit)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	rows, err := h.Service.Industries(r.Context(), limit)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, rows)
}

func (h AnalyticsHandler) Locations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", h.opts().BreakdownLimit)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	rows, err := h.Service.Locations(r.Context(), limit)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, rows)
}

func (h AnalyticsHandler) Histogram(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.Service.Histogram(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, buckets)
}

func (h AnalyticsHandler) Growth(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", h.opts().GrowthMonths)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	rows, err := h.Service.Growth(r.Context(), months)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, rows)
}

// Recommendations returns the ordered list; ?top=N keeps the first N.
func (h AnalyticsHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	top, err := queryInt(r, "top", 0)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	recs, err := h.Service.Recommendations(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	if top > 0 && top < len(recs) {
		recs = recs[:top]
	}
	writeJSON(w, recs)
}

func (h AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Service.Snapshot(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, snap)
}

func (h AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Service.Dashboard(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, sum)
}
