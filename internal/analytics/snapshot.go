package analytics

import (
	"time"

	"leadgen-engine/internal/domain"
)

type Options struct {
	TrendDays      int
	BreakdownLimit int
	GrowthMonths   int
}

// WithDefaults fills zero windows with the package defaults.
func (o Options) WithDefaults() Options {
	if o.TrendDays <= 0 {
		o.TrendDays = DefaultTrendDays
	}
	if o.BreakdownLimit <= 0 {
		o.BreakdownLimit = DefaultBreakdownLimit
	}
	if o.GrowthMonths <= 0 {
		o.GrowthMonths = DefaultGrowthMonths
	}
	return o
}

// Snapshot is a point-in-time rollup. It is recomputed on every request and
// never persisted.
type Snapshot struct {
	GeneratedAt     time.Time         `json:"generatedAt"`
	Overall         OverallStats      `json:"overallStats"`
	Trend           []TrendRow        `json:"trends"`
	Industries      []BreakdownRow    `json:"industryInsights"`
	Locations       []BreakdownRow    `json:"locationInsights"`
	Histogram       []HistogramBucket `json:"histogram"`
	Growth          []GrowthRow       `json:"growth"`
	Dashboard       DashboardSummary  `json:"dashboard"`
	Predictions     Predictions       `json:"predictions"`
	Recommendations []Recommendation  `json:"recommendations"`
}

func Build(leads []domain.Lead, now time.Time, opts Options) Snapshot {
	opts = opts.WithDefaults()
	th := AnalyticsHighQualityThreshold

	s := Snapshot{
		GeneratedAt: now.UTC(),
		Overall:     Overall(leads, th),
		Trend:       Trend(leads, opts.TrendDays, th),
		Industries:  IndustryBreakdown(leads, opts.BreakdownLimit, th),
		Locations:   LocationBreakdown(leads, opts.BreakdownLimit, th),
		Histogram:   Histogram(leads),
		Growth:      Growth(leads, opts.GrowthMonths),
		Dashboard:   Dashboard(leads, now),
	}
	s.Predictions = Predict(s.Overall, s.Industries, s.Locations)
	s.Recommendations = Recommend(Input{
		Overall:     s.Overall,
		Industries:  s.Industries,
		Locations:   s.Locations,
		Predictions: s.Predictions,
	})
	return s
}
