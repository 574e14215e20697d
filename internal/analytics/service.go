package analytics

import (
	"context"
	"fmt"
	"time"

	"leadgen-engine/internal/domain"
)

// Reader projects the stored leads for aggregation.
type Reader interface {
	AllLeads(ctx context.Context) ([]domain.Lead, error)
}

// Service answers analytics queries by recomputing from the store each time.
// It keeps no running totals.
type Service struct {
	Store   Reader
	Options Options
	Now     func() time.Time
}

func NewService(r Reader, opts Options) *Service {
	return &Service{Store: r, Options: opts.WithDefaults(), Now: time.Now}
}

func (s *Service) load(ctx context.Context) ([]domain.Lead, error) {
	leads, err := s.Store.AllLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leads: %w", err)
	}
	return leads, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) OverallStats(ctx context.Context) (OverallStats, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return OverallStats{}, err
	}
	return Overall(leads, AnalyticsHighQualityThreshold), nil
}

func (s *Service) Trend(ctx context.Context, days int) ([]TrendRow, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = s.Options.TrendDays
	}
	return Trend(leads, days, AnalyticsHighQualityThreshold), nil
}

func (s *Service) Industries(ctx context.Context, limit int) ([]BreakdownRow, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.Options.BreakdownLimit
	}
	return IndustryBreakdown(leads, limit, AnalyticsHighQualityThreshold), nil
}

func (s *Service) Locations(ctx context.Context, limit int) ([]BreakdownRow, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.Options.BreakdownLimit
	}
	return LocationBreakdown(leads, limit, AnalyticsHighQualityThreshold), nil
}

func (s *Service) Histogram(ctx context.Context) ([]HistogramBucket, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return Histogram(leads), nil
}

func (s *Service) Growth(ctx context.Context, months int) ([]GrowthRow, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.Options.GrowthMonths
	}
	return Growth(leads, months), nil
}

func (s *Service) Dashboard(ctx context.Context) (DashboardSummary, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	return Dashboard(leads, s.now()), nil
}

func (s *Service) Recommendations(ctx context.Context) ([]Recommendation, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Recommendations, nil
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	leads, err := s.load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Build(leads, s.now(), s.Options), nil
}
