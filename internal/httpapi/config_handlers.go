package httpapi

import (
	"net/http"
	"path/filepath"
	"sync/atomic"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	Hub         *events.Hub
}

// Settings is what the engine derives from a config: the analytics windows
// with defaults filled in and the sources a poll would visit.
type Settings struct {
	Analytics      analyticsWindows `json:"analytics"`
	EnabledSources []string         `json:"enabledSources"`
	PollSeconds    int              `json:"pollSeconds"`
}

type analyticsWindows struct {
	TrendDays      int `json:"trendDays"`
	BreakdownLimit int `json:"breakdownLimit"`
	GrowthMonths   int `json:"growthMonths"`
}

type validateResponse struct {
	config.Validation
	Effective Settings `json:"effective"`
}

// AnalyticsOptions maps the analytics section of cfg onto the service options.
func AnalyticsOptions(cfg config.Config) analytics.Options {
	return analytics.Options{
		TrendDays:      cfg.Analytics.TrendDays,
		BreakdownLimit: cfg.Analytics.BreakdownLimit,
	}.WithDefaults()
}

func effectiveSettings(cfg config.Config) Settings {
	opts := AnalyticsOptions(cfg)
	s := Settings{
		Analytics: analyticsWindows{
			TrendDays:      opts.TrendDays,
			BreakdownLimit: opts.BreakdownLimit,
			GrowthMonths:   opts.GrowthMonths,
		},
		EnabledSources: []string{},
	}
	for _, src := range cfg.EnabledSources() {
		s.EnabledSources = append(s.EnabledSources, src.Name)
	}
	if cfg.Polling.Enabled {
		s.PollSeconds = cfg.Polling.IntervalSeconds
	}
	return s
}

func (h ConfigHandler) current() config.Config {
	return h.CfgVal.Load().(config.Config)
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.current())
}

// Put validates, saves and reloads the user config. The analytics endpoints
// read their default windows from the reloaded value on the next request.
func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := decodeJSON(r, &incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// structured errors so the UI can show them next to fields
		WriteJSON(w, http.StatusBadRequest, validateResponse{Validation: vr, Effective: effectiveSettings(normalized)})
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusBadRequest, "save_failed", err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reload_failed", "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeConfigReloaded, effectiveSettings(saved))
	writeJSON(w, saved)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	writeJSON(w, map[string]any{"path": abs})
}

// Validate checks the running config and reports the settings it resolves to.
func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	normalized, vr := config.NormalizeAndValidate(h.current())
	writeJSON(w, validateResponse{Validation: vr, Effective: effectiveSettings(normalized)})
}

// Effective reports the settings the running config resolves to.
func (h ConfigHandler) Effective(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, effectiveSettings(h.current()))
}
