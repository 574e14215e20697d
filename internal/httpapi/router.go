package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/secrets"
)

// NewRouter wires every endpoint behind the request-id, recover, access-log
// and CORS middleware.
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.SetSecret == nil {
		d.SetSecret = secrets.Set
	}

	r := chi.NewRouter()
	r.Use(RequestID, Recover(log), AccessLog(log), Cors)

	r.Get("/health", HealthHandler{DB: d.DB}.Health)

	lh := LeadsHandler{DB: d.DB, Ingestor: d.Ingestor, Scoring: d.Scoring, Hub: d.Hub}
	r.Get("/leads", lh.List)
	r.Get("/leads/{id}", lh.Get)
	r.Post("/ingest", lh.Ingest)
	r.Post("/score", lh.Score)

	ah := AnalyticsHandler{Service: d.Analytics}
	if d.CfgVal != nil {
		ah.Options = func() analytics.Options {
			opts := AnalyticsOptions(d.CfgVal.Load().(config.Config))
			opts.GrowthMonths = d.Analytics.Options.GrowthMonths
			return opts
		}
	}
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/overall", ah.Overall)
		r.Get("/trend", ah.Trend)
		r.Get("/industries", ah.Industries)
		r.Get("/locations", ah.Locations)
		r.Get("/histogram", ah.Histogram)
		r.Get("/growth", ah.Growth)
		r.Get("/recommendations", ah.Recommendations)
		r.Get("/snapshot", ah.Snapshot)
	})
	r.Get("/dashboard/summary", ah.Dashboard)

	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	r.Route("/config", func(r chi.Router) {
		r.Get("/", ch.Get)
		r.Put("/", ch.Put)
		r.Get("/path", ch.Path)
		r.Get("/validate", ch.Validate)
		r.Get("/effective", ch.Effective)
	})

	sch := ScrapeHandler{Poller: d.Poller, ScrapeStatus: d.ScrapeStatus, Log: log}
	r.Get("/scrape/status", sch.Status)
	r.Post("/scrape/run", sch.Run)

	// use cfgVal, NOT a snapshot cfg
	sh := SecretsHandler{CfgVal: d.CfgVal, Store: d.SetSecret}
	r.Post("/secrets/{source}", sh.Set)

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	dh := DBHandler{DB: d.DB}
	r.Post("/db/checkpoint", dh.Checkpoint)

	return r
}
