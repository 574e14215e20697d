package main

import (
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/httpapi"
	"leadgen-engine/internal/ingest"
	"leadgen-engine/internal/logger"
	"leadgen-engine/internal/poll"
	"leadgen-engine/internal/rank"
	"leadgen-engine/internal/scrape"
	"leadgen-engine/internal/scrape/types"
	"leadgen-engine/internal/scrape/util"
	"leadgen-engine/internal/secrets"
	"leadgen-engine/internal/store"
)

const httpTimeout = 30 * time.Second

// app is everything a command needs, built once from flags and config.
type app struct {
	log     *zap.Logger
	dataDir string
	layout  config.Layout
	cfgPath string

	cfgVal *atomic.Value // config.Config
	status *atomic.Value // types.ScrapeStatus

	db        *store.DB
	hub       *events.Hub
	ingestor  *ingest.Ingestor
	scoring   *rank.Job
	analytics *analytics.Service
	runner    *poll.Runner
	poller    *poll.Poller
}

func newApp() (*app, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	a := &app{
		log:     log,
		dataDir: viper.GetString("data-dir"),
		layout:  config.Layout{Dir: viper.GetString("data-dir")},
		cfgVal:  &atomic.Value{},
		status:  &atomic.Value{},
	}
	if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
		return nil, err
	}

	a.cfgPath = viper.GetString("config")
	if a.cfgPath == "" {
		var created bool
		if a.cfgPath, created, err = config.EnsureUserConfig(a.dataDir); err != nil {
			return nil, fmt.Errorf("config bootstrap failed: %w", err)
		}
		if created {
			log.Info("wrote default config", zap.String("path", a.cfgPath))
		}
	}
	cfg, err := a.loadCfg()
	if err != nil {
		return nil, err
	}
	a.cfgVal.Store(cfg)
	a.status.Store(types.ScrapeStatus{})

	dbPath := a.layout.DB()
	if a.db, err = store.Open(dbPath); err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	a.hub = events.NewHub()
	a.ingestor = ingest.New(a.db, log.Named("ingest"))
	a.scoring = rank.NewJob(a.db, a.layout.ScoringLock(cfg), log.Named("rank"))
	a.analytics = analytics.NewService(a.db, httpapi.AnalyticsOptions(cfg))

	deps := scrape.Deps{
		HTTP:    &http.Client{Timeout: httpTimeout},
		Limiter: util.NewHostLimiter(cfg.Polling.RequestsPerSecond, cfg.Polling.Burst),
		DataDir: a.layout.SourceDir(cfg),
		Secret:  secrets.Get,
	}
	a.runner = &poll.Runner{
		Fetchers: func(cfg config.Config) ([]types.Fetcher, error) {
			d := deps
			d.DataDir = a.layout.SourceDir(cfg)
			return scrape.BuildFetchers(cfg, d)
		},
		Ingestor:  a.ingestor,
		Scoring:   a.scoring,
		Analytics: a.analytics,
		Hub:       a.hub,
		Log:       log.Named("poll"),
	}
	a.poller = &poll.Poller{
		Runner: a.runner,
		Config: a.cfgVal,
		Status: a.status,
		Log:    log.Named("poll"),
	}

	log.Debug("engine ready",
		zap.String("data_dir", a.dataDir),
		zap.String("config", a.cfgPath),
		zap.String("db", dbPath))
	return a, nil
}

// loadCfg reads the config file, applies the sources.yml overlay and
// validates the result. Warnings are logged, errors fail the load.
func (a *app) loadCfg() (config.Config, error) {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("config load failed (%s): %w", a.cfgPath, err)
	}
	if err := config.OverlaySources(&cfg, a.layout.Sources()); err != nil {
		return cfg, fmt.Errorf("sources overlay: %w", err)
	}
	normalized, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		a.log.Warn("config warning", zap.String("warning", w))
	}
	if !vr.OK() {
		return cfg, fmt.Errorf("invalid config %s: %v", a.cfgPath, vr.Errors)
	}
	return normalized, nil
}

func (a *app) config() config.Config {
	return a.cfgVal.Load().(config.Config)
}

func (a *app) findSource(name string) (config.Source, error) {
	for _, src := range a.config().Sources {
		if src.Name == name {
			return src, nil
		}
	}
	return config.Source{}, fmt.Errorf("unknown source %q", name)
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}
