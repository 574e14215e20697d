package poll

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/config"
	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/events"
	"leadgen-engine/internal/ingest"
	"leadgen-engine/internal/rank"
	"leadgen-engine/internal/scrape/types"
	"leadgen-engine/internal/store"
)

type stubFetcher struct {
	name  string
	leads []domain.RawLead
	err   error
}

func (s stubFetcher) Name() string { return s.name }

func (s stubFetcher) Fetch(context.Context) ([]domain.RawLead, error) { return s.leads, s.err }

func newRunner(t *testing.T, fetchers ...types.Fetcher) (*Runner, *store.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "leads.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return &Runner{
		Fetchers:  func(config.Config) ([]types.Fetcher, error) { return fetchers, nil },
		Ingestor:  ingest.New(db, nil),
		Scoring:   rank.NewJob(db, filepath.Join(dir, "scoring.lock"), nil),
		Analytics: analytics.NewService(db, analytics.Options{}),
		Hub:       events.NewHub(),
	}, db
}

func TestPollOnceEndToEnd(t *testing.T) {
	r, db := newRunner(t,
		stubFetcher{name: "a", leads: []domain.RawLead{{CompanyName: "Acme", Location: "Austin, TX"}, {CompanyName: "Beta"}}},
		stubFetcher{name: "down", err: errors.New("503")},
		stubFetcher{name: "b", leads: []domain.RawLead{{CompanyNameSnake: "Acme"}, {CompanyName: "Gamma"}}},
	)
	ch := r.Hub.Subscribe()
	defer r.Hub.Unsubscribe(ch)

	res, err := r.PollOnce(context.Background(), config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Fetched != 4 || len(res.FailedSources) != 1 || res.FailedSources[0] != "down" {
		t.Fatalf("fetch = %+v", res)
	}
	if res.Ingest.Admitted != 3 || res.Ingest.Rejected != 1 {
		t.Fatalf("ingest = %+v", res.Ingest)
	}
	if res.Scoring.ScoredCount != 3 {
		t.Fatalf("scoring = %+v", res.Scoring)
	}
	if res.Snapshot == nil || res.Snapshot.Overall.TotalLeads != 3 || res.Snapshot.Overall.ScoringCoverage != 100 {
		t.Fatalf("snapshot = %+v", res.Snapshot)
	}
	if len(ch) != 2 {
		t.Fatalf("events = %d, want ingested and scored", len(ch))
	}

	// second run: nothing new, scoring is a no-op
	res, err = r.PollOnce(context.Background(), config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ingest.Admitted != 0 || res.Scoring.ScoredCount != 0 {
		t.Fatalf("second run = %+v", res)
	}
	total, scored, _ := db.CountLeads(context.Background())
	if total != 3 || scored != 3 {
		t.Fatalf("store = %d/%d", scored, total)
	}
}

func TestPollerRunNowUpdatesStatus(t *testing.T) {
	r, _ := newRunner(t,
		stubFetcher{name: "a", leads: []domain.RawLead{{CompanyName: "Acme"}}},
		stubFetcher{name: "down", err: errors.New("503")},
	)
	var cfgVal, status atomic.Value
	cfgVal.Store(config.Config{})
	status.Store(types.ScrapeStatus{})

	p := &Poller{Runner: r, Config: &cfgVal, Status: &status}
	if _, err := p.RunNow(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := status.Load().(types.ScrapeStatus)
	if st.Running || st.LastAdmitted != 1 || st.LastScored != 1 || st.LastOkAt == "" {
		t.Fatalf("status = %+v", st)
	}
	if len(st.FailedSources) != 1 || st.LastError == "" {
		t.Fatalf("failed sources not reported: %+v", st)
	}
}

func TestPollerRejectsOverlap(t *testing.T) {
	r, _ := newRunner(t)
	var cfgVal, status atomic.Value
	cfgVal.Store(config.Config{})
	p := &Poller{Runner: r, Config: &cfgVal, Status: &status}

	p.running.Lock()
	defer p.running.Unlock()
	if _, err := p.RunNow(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v", err)
	}
}
