package rank

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/store"
)

type memStore struct {
	mu     sync.Mutex
	leads  map[string]*domain.Lead
	order  []string
	failID map[string]bool
}

func newMemStore(leads ...domain.Lead) *memStore {
	m := &memStore{leads: map[string]*domain.Lead{}, failID: map[string]bool{}}
	for i := range leads {
		l := leads[i]
		m.leads[l.ID] = &l
		m.order = append(m.order, l.ID)
	}
	return m
}

func (m *memStore) FindUnscored(context.Context) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Lead
	for _, id := range m.order {
		if l := m.leads[id]; l.Score == nil {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memStore) UpdateScore(_ context.Context, id string, score int, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failID[id] {
		return false, errors.New("disk full")
	}
	l := m.leads[id]
	if l == nil || l.Score != nil {
		return false, nil
	}
	l.Score, l.ScoredAt = &score, &at
	return true, nil
}

func fixedNow() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func TestJobScoresOnce(t *testing.T) {
	st := newMemStore(
		domain.Lead{ID: "a", CompanyName: "Acme", ScrapedAt: fixedNow().Add(-time.Hour)},
		domain.Lead{ID: "b", CompanyName: "Beta", ScrapedAt: fixedNow().Add(-time.Hour)},
	)
	j := NewJob(st, "", nil)
	j.Now = fixedNow

	res, err := j.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.ScoredCount != 2 || res.Candidates != 2 {
		t.Fatalf("first run = %+v", res)
	}
	first := *st.leads["a"].Score
	firstAt := *st.leads["a"].ScoredAt

	j.Now = func() time.Time { return fixedNow().Add(24 * time.Hour) }
	res, err = j.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.ScoredCount != 0 || res.Candidates != 0 {
		t.Fatalf("second run should be a no-op, got %+v", res)
	}
	if *st.leads["a"].Score != first || !st.leads["a"].ScoredAt.Equal(firstAt) {
		t.Fatal("score or scoredAt changed on re-run")
	}
}

func TestJobScoredAtNotBeforeScrapedAt(t *testing.T) {
	future := fixedNow().Add(time.Hour)
	st := newMemStore(domain.Lead{ID: "a", CompanyName: "Acme", ScrapedAt: future})
	j := NewJob(st, "", nil)
	j.Now = fixedNow

	if _, err := j.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := *st.leads["a"].ScoredAt; got.Before(future) {
		t.Fatalf("scoredAt %v before scrapedAt %v", got, future)
	}
}

func TestJobIsolatesLeadFailures(t *testing.T) {
	st := newMemStore(
		domain.Lead{ID: "a", CompanyName: "Acme"},
		domain.Lead{ID: "b", CompanyName: "Beta"},
		domain.Lead{ID: "c", CompanyName: ""},
	)
	st.failID["b"] = true

	res, err := NewJob(st, "", nil).Run(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not fail the run: %v", err)
	}
	if res.ScoredCount != 2 || res.Failed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if st.leads["b"].Score != nil {
		t.Fatal("failed lead must stay unscored")
	}
}

func TestJobReportsTotalFailure(t *testing.T) {
	st := newMemStore(domain.Lead{ID: "a", CompanyName: "Acme"}, domain.Lead{ID: "b", CompanyName: "Beta"})
	st.failID["a"], st.failID["b"] = true, true

	res, err := NewJob(st, "", nil).Run(context.Background())
	var pe *store.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}
	if pe.Attempted != 2 || pe.Succeeded != 0 || res.Failed != 2 {
		t.Fatalf("pe = %+v, res = %+v", pe, res)
	}
}

func TestJobSingleWriter(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "scoring.lock")
	other := flock.New(lockPath)
	ok, err := other.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock = %v, %v", ok, err)
	}

	st := newMemStore(domain.Lead{ID: "a", CompanyName: "Acme"})
	j := NewJob(st, lockPath, nil)
	if _, err := j.Run(context.Background()); !errors.Is(err, ErrScoringBusy) {
		t.Fatalf("err = %v, want ErrScoringBusy", err)
	}
	if st.leads["a"].Score != nil {
		t.Fatal("lead scored while lock was held elsewhere")
	}

	if err := other.Unlock(); err != nil {
		t.Fatal(err)
	}
	res, err := j.Run(context.Background())
	if err != nil || res.ScoredCount != 1 {
		t.Fatalf("after unlock: %+v, %v", res, err)
	}
}
