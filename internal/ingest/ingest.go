package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadgen-engine/internal/domain"
)

// Store is the part of the lead store ingestion writes through.
type Store interface {
	FindByCompanyNames(ctx context.Context, names []string) (map[string]struct{}, error)
	InsertMany(ctx context.Context, leads []domain.Lead) (int, error)
}

type Result struct {
	Received int `json:"received"`
	Admitted int `json:"admitted"`
	Rejected int `json:"rejected"`
	Invalid  int `json:"invalid"`
}

func (r *Result) Add(o Result) {
	r.Received += o.Received
	r.Admitted += o.Admitted
	r.Rejected += o.Rejected
	r.Invalid += o.Invalid
}

type Ingestor struct {
	Store Store
	Log   *zap.Logger
	Now   func() time.Time
	NewID func() string
}

func New(st Store, log *zap.Logger) *Ingestor {
	return &Ingestor{Store: st, Log: log, Now: time.Now, NewID: uuid.NewString}
}

// Ingest normalizes, deduplicates and stores one batch of raw leads.
// Records with a blank company name are dropped and counted as invalid.
func (in *Ingestor) Ingest(ctx context.Context, raws []domain.RawLead) (Result, error) {
	log := in.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}
	newID := uuid.NewString
	if in.NewID != nil {
		newID = in.NewID
	}

	res := Result{Received: len(raws)}
	if len(raws) == 0 {
		return res, nil
	}

	at := now().UTC()
	batch := make([]domain.Lead, 0, len(raws))
	for i, raw := range raws {
		l, err := Normalize(raw, at, newID)
		if errors.Is(err, domain.ErrEmptyCompanyName) {
			res.Invalid++
			log.Debug("dropped raw lead", zap.Int("index", i), zap.String("source", raw.Source), zap.Error(err))
			continue
		}
		batch = append(batch, l)
	}

	existing, err := in.Store.FindByCompanyNames(ctx, CompanyNames(batch))
	if err != nil {
		return res, fmt.Errorf("dedup lookup: %w", err)
	}

	d := Dedup(batch, existing)
	res.Rejected += d.Rejected
	res.Invalid += d.Invalid

	inserted, err := in.Store.InsertMany(ctx, d.Admitted)
	if err != nil {
		return res, fmt.Errorf("insert leads: %w", err)
	}
	res.Admitted = inserted
	// A concurrent ingest may have stored the same name in between.
	res.Rejected += len(d.Admitted) - inserted

	log.Info("ingested leads",
		zap.Int("received", res.Received),
		zap.Int("admitted", res.Admitted),
		zap.Int("rejected", res.Rejected),
		zap.Int("invalid", res.Invalid))
	return res, nil
}
