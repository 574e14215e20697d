package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/ingest"
	"leadgen-engine/internal/rank"
	"leadgen-engine/internal/scrape"
	"leadgen-engine/internal/scrape/types"
)

// Runner performs one batch: fetch every source, ingest, score, then
// rebuild the analytics snapshot.
type Runner struct {
	Fetchers  func(cfg config.Config) ([]types.Fetcher, error)
	Ingestor  *ingest.Ingestor
	Scoring   *rank.Job
	Analytics *analytics.Service
	Hub       *events.Hub
	Log       *zap.Logger
}

type RunResult struct {
	StartedAt     time.Time           `json:"startedAt"`
	Fetched       int                 `json:"fetched"`
	PerSource     map[string]int      `json:"perSource"`
	FailedSources []string            `json:"failedSources"`
	Ingest        ingest.Result       `json:"ingest"`
	Scoring       rank.Result         `json:"scoring"`
	Snapshot      *analytics.Snapshot `json:"snapshot,omitempty"`
}

// PollOnce never fails because of a single source. It returns an error only
// when the store cannot be written or read, with the counts gathered so far.
func (r *Runner) PollOnce(ctx context.Context, cfg config.Config) (RunResult, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	res := RunResult{StartedAt: time.Now().UTC(), FailedSources: []string{}}

	fetchers, err := r.Fetchers(cfg)
	if err != nil {
		return res, fmt.Errorf("build fetchers: %w", err)
	}

	timeout := time.Duration(cfg.Polling.SourceTimeoutSeconds) * time.Second
	batch := scrape.FetchAll(ctx, fetchers, timeout, log)
	res.Fetched = len(batch.Leads)
	res.PerSource = batch.PerSource
	for _, se := range batch.Errors {
		res.FailedSources = append(res.FailedSources, se.Source)
	}
	log.Info("poll fetched",
		zap.Int("sources", len(fetchers)),
		zap.Int("failed", len(batch.Errors)),
		zap.Int("leads", res.Fetched))

	res.Ingest, err = r.Ingestor.Ingest(ctx, batch.Leads)
	if err != nil {
		return res, err
	}
	if res.Ingest.Admitted > 0 {
		r.Hub.Emit("", events.TypeLeadsIngested, res.Ingest)
	}

	res.Scoring, err = r.Scoring.Run(ctx)
	switch {
	case errors.Is(err, rank.ErrScoringBusy):
		log.Warn("scoring skipped", zap.Error(err))
	case err != nil:
		return res, err
	case res.Scoring.ScoredCount > 0:
		r.Hub.Emit("", events.TypeLeadsScored, res.Scoring)
	}

	if r.Analytics != nil {
		snap, err := r.Analytics.Snapshot(ctx)
		if err != nil {
			return res, err
		}
		res.Snapshot = &snap
	}
	return res, nil
}
