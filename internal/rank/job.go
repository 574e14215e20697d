package rank

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/store"
)

// ErrScoringBusy is returned when another scoring run holds the lock.
var ErrScoringBusy = errors.New("scoring run already in progress")

// Store is the part of the lead store the scoring job needs.
type Store interface {
	FindUnscored(ctx context.Context) ([]domain.Lead, error)
	UpdateScore(ctx context.Context, id string, score int, scoredAt time.Time) (bool, error)
}

type Result struct {
	Candidates  int `json:"candidates"`
	ScoredCount int `json:"scoredCount"`
	Failed      int `json:"failed"`
}

// Job scores every unscored lead. Only one run is active at a time, both
// within the process and across processes sharing LockPath.
type Job struct {
	Store    Store
	Scorer   Scorer
	Log      *zap.Logger
	LockPath string
	Now      func() time.Time

	mu sync.Mutex
}

func NewJob(st Store, lockPath string, log *zap.Logger) *Job {
	return &Job{
		Store:    st,
		Scorer:   NewWeightedScorer(),
		Log:      log,
		LockPath: lockPath,
		Now:      time.Now,
	}
}

func (j *Job) Run(ctx context.Context) (Result, error) {
	if !j.mu.TryLock() {
		return Result{}, ErrScoringBusy
	}
	defer j.mu.Unlock()

	if j.LockPath != "" {
		fl := flock.New(j.LockPath)
		ok, err := fl.TryLock()
		if err != nil {
			return Result{}, fmt.Errorf("scoring lock %s: %w", j.LockPath, err)
		}
		if !ok {
			return Result{}, ErrScoringBusy
		}
		defer func() { _ = fl.Unlock() }()
	}

	return j.scoreAll(ctx)
}

func (j *Job) scoreAll(ctx context.Context) (Result, error) {
	log := j.logger()

	leads, err := j.Store.FindUnscored(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("find unscored: %w", err)
	}

	res := Result{Candidates: len(leads)}
	if len(leads) == 0 {
		log.Debug("no unscored leads")
		return res, nil
	}

	var lastErr error
	for _, l := range leads {
		if err := ctx.Err(); err != nil {
			return res, &store.PersistenceError{Op: "score", Attempted: res.Candidates, Succeeded: res.ScoredCount, Err: err}
		}

		score, _ := j.Scorer.Score(l)
		at := j.now()
		if at.Before(l.ScrapedAt) {
			at = l.ScrapedAt
		}

		updated, err := j.Store.UpdateScore(ctx, l.ID, score, at)
		if err != nil {
			res.Failed++
			lastErr = err
			log.Warn("score lead failed", zap.String("company", l.CompanyName), zap.Error(err))
			continue
		}
		if updated {
			res.ScoredCount++
		}
	}

	if res.Failed == res.Candidates {
		return res, &store.PersistenceError{Op: "score", Attempted: res.Candidates, Err: lastErr}
	}

	log.Info("scoring completed",
		zap.Int("scored", res.ScoredCount),
		zap.Int("failed", res.Failed),
		zap.Int("candidates", res.Candidates))
	return res, nil
}

func (j *Job) now() time.Time {
	if j.Now == nil {
		return time.Now().UTC()
	}
	return j.Now().UTC()
}

func (j *Job) logger() *zap.Logger {
	if j.Log == nil {
		return zap.NewNop()
	}
	return j.Log
}
