package httpapi

import (
	"sync/atomic"

	"go.uber.org/zap"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/ingest"
	"leadgen-engine/internal/poll"
	"leadgen-engine/internal/rank"
	"leadgen-engine/internal/store"
)

type Deps struct {
	DB *store.DB

	Ingestor  *ingest.Ingestor
	Scoring   *rank.Job
	Analytics *analytics.Service
	Poller    *poll.Poller

	Hub *events.Hub
	Log *zap.Logger

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	ScrapeStatus *atomic.Value // stores types.ScrapeStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Secret storage (inject for testability); defaults to secrets.Set
	SetSecret func(src config.Source, secret string) error
}
