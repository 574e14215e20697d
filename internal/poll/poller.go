package poll

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/scheduler"
	"leadgen-engine/internal/scrape/types"
)

var ErrAlreadyRunning = errors.New("poll already running")

const tick = 30 * time.Second

// Poller runs the Runner on the configured interval and on demand, never
// overlapping, and records the outcome in Status.
type Poller struct {
	Runner *Runner
	Config *atomic.Value // config.Config
	Status *atomic.Value // types.ScrapeStatus
	Log    *zap.Logger

	running sync.Mutex
	mu      sync.Mutex
	lastRun time.Time
}

func (p *Poller) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// Start blocks until ctx is done.
func (p *Poller) Start(ctx context.Context) {
	scheduler.Every(ctx, tick, "poll", p.log(), func(ctx context.Context) error {
		cfg, ok := p.Config.Load().(config.Config)
		if !ok || !cfg.Polling.Enabled || len(cfg.EnabledSources()) == 0 {
			return nil
		}
		interval := time.Duration(cfg.Polling.IntervalSeconds) * time.Second
		p.mu.Lock()
		due := p.lastRun.IsZero() || time.Since(p.lastRun) >= interval
		p.mu.Unlock()
		if !due {
			return nil
		}
		_, err := p.RunNow(ctx)
		if errors.Is(err, ErrAlreadyRunning) {
			return nil
		}
		return err
	})
}

// RunNow performs one poll unless one is already in progress.
func (p *Poller) RunNow(ctx context.Context) (RunResult, error) {
	if !p.running.TryLock() {
		return RunResult{}, ErrAlreadyRunning
	}
	defer p.running.Unlock()

	cfg, _ := p.Config.Load().(config.Config)

	st := p.status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	p.Status.Store(st)
	p.Runner.Hub.Emit("", events.TypeScrapeStarted, nil)

	res, err := p.Runner.PollOnce(ctx, cfg)
	p.mu.Lock()
	p.lastRun = time.Now()
	p.mu.Unlock()

	st = p.status()
	st.Running = false
	st.LastAdmitted = res.Ingest.Admitted
	st.LastScored = res.Scoring.ScoredCount
	st.FailedSources = res.FailedSources
	if err != nil {
		st.LastError = err.Error()
		p.log().Error("poll failed", zap.Error(err))
	} else {
		st.LastError = ""
		if len(res.FailedSources) > 0 {
			st.LastError = "failed sources: " + strings.Join(res.FailedSources, ", ")
		}
		st.LastOkAt = time.Now().Format(time.RFC3339)
		p.log().Info("poll ok",
			zap.Int("admitted", res.Ingest.Admitted),
			zap.Int("scored", res.Scoring.ScoredCount))
	}
	p.Status.Store(st)
	p.Runner.Hub.Emit("", events.TypeScrapeFinished, st)

	return res, err
}

func (p *Poller) status() types.ScrapeStatus {
	st, _ := p.Status.Load().(types.ScrapeStatus)
	return st
}
