package analytics

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"leadgen-engine/internal/domain"
)

// High-quality thresholds differ per view and are intentionally not unified.
const (
	AnalyticsHighQualityThreshold = 30
	DashboardHighQualityThreshold = 25
)

const (
	DefaultTrendDays      = 30
	DefaultBreakdownLimit = 10
	DefaultGrowthMonths   = 12
)

type OverallStats struct {
	TotalLeads            int  `json:"totalLeads"`
	ScoredLeads           int  `json:"scoredLeads"`
	ScoringCoverage       int  `json:"scoringCoverage"`
	HighQualityLeads      int  `json:"highQualityLeads"`
	HighQualityPercentage int  `json:"highQualityPercentage"`
	AverageScore          Stat `json:"averageScore"`
	MedianScore           Stat `json:"medianScore"`
	StdDev                Stat `json:"stdDev"`
	MinScore              Stat `json:"minScore"`
	MaxScore              Stat `json:"maxScore"`
}

type TrendRow struct {
	Date                  string `json:"date"`
	DailyCount            int    `json:"dailyCount"`
	ScoredCount           int    `json:"scoredCount"`
	AverageScore          Stat   `json:"averageScore"`
	HighQualityCount      int    `json:"highQualityCount"`
	HighQualityPercentage int    `json:"highQualityPercentage"`
	ScoringCoverage       int    `json:"scoringCoverage"`
}

// BreakdownRow is one industry or location group. Missing marks the group of
// leads that have no value for the attribute.
type BreakdownRow struct {
	Name                  string `json:"name"`
	Missing               bool   `json:"missing"`
	TotalCount            int    `json:"totalCount"`
	ScoredCount           int    `json:"scoredCount"`
	ScoringCoverage       int    `json:"scoringCoverage"`
	HighQualityCount      int    `json:"highQualityCount"`
	HighQualityPercentage int    `json:"highQualityPercentage"`
	AverageScore          Stat   `json:"averageScore"`
}

const missingLabel = "Unspecified"

func (r BreakdownRow) Label() string {
	if r.Missing {
		return missingLabel
	}
	return r.Name
}

type HistogramBucket struct {
	Range      string `json:"range"`
	Min        int    `json:"min"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type GrowthRow struct {
	Month        string `json:"month"`
	Count        int    `json:"count"`
	ScoredCount  int    `json:"scoredCount"`
	AverageScore Stat   `json:"averageScore"`
}

// HistogramBoundaries are bucket lower bounds; the last bucket is open-ended.
var HistogramBoundaries = []int{0, 10, 20, 30, 40, 50, 60}

// group accumulates the counters shared by every grouped view.
type group struct {
	key     string
	missing bool
	total   int
	hq      int
	scores  []int
}

func (g *group) add(l domain.Lead, threshold int) {
	g.total++
	if s, ok := l.ScoreValue(); ok {
		g.scores = append(g.scores, s)
		if s >= threshold {
			g.hq++
		}
	}
}

func Overall(leads []domain.Lead, threshold int) OverallStats {
	var g group
	for _, l := range leads {
		g.add(l, threshold)
	}
	return OverallStats{
		TotalLeads:            g.total,
		ScoredLeads:           len(g.scores),
		ScoringCoverage:       Percent(len(g.scores), g.total),
		HighQualityLeads:      g.hq,
		HighQualityPercentage: Percent(g.hq, g.total),
		AverageScore:          Mean(g.scores),
		MedianScore:           Median(g.scores),
		StdDev:                StdDev(g.scores),
		MinScore:              Min(g.scores),
		MaxScore:              Max(g.scores),
	}
}

// Trend groups leads by UTC calendar day of scrapedAt and returns the most
// recent days present, newest first.
func Trend(leads []domain.Lead, days, threshold int) []TrendRow {
	if days <= 0 {
		days = DefaultTrendDays
	}
	groups := groupBy(leads, threshold, func(l domain.Lead) (string, bool) {
		return l.ScrapedAt.UTC().Format(time.DateOnly), false
	})
	slices.SortFunc(groups, func(a, b *group) int { return strings.Compare(b.key, a.key) })
	if len(groups) > days {
		groups = groups[:days]
	}

	out := make([]TrendRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, TrendRow{
			Date:                  g.key,
			DailyCount:            g.total,
			ScoredCount:           len(g.scores),
			AverageScore:          Mean(g.scores),
			HighQualityCount:      g.hq,
			HighQualityPercentage: Percent(g.hq, g.total),
			ScoringCoverage:       Percent(len(g.scores), g.total),
		})
	}
	return out
}

func IndustryBreakdown(leads []domain.Lead, limit, threshold int) []BreakdownRow {
	return breakdown(leads, limit, threshold, func(l domain.Lead) (string, bool) {
		name := strings.TrimSpace(l.Industry)
		return name, name == ""
	})
}

// LocationBreakdown groups by the trailing comma-delimited token of location
// ("Austin, TX" -> "TX").
func LocationBreakdown(leads []domain.Lead, limit, threshold int) []BreakdownRow {
	return breakdown(leads, limit, threshold, func(l domain.Lead) (string, bool) {
		region := RegionOf(l.Location)
		return region, region == ""
	})
}

func RegionOf(location string) string {
	i := strings.LastIndex(location, ",")
	return strings.TrimSpace(location[i+1:])
}

func breakdown(leads []domain.Lead, limit, threshold int, key func(domain.Lead) (string, bool)) []BreakdownRow {
	if limit <= 0 {
		limit = DefaultBreakdownLimit
	}
	groups := groupBy(leads, threshold, key)
	slices.SortFunc(groups, func(a, b *group) int {
		if c := cmp.Compare(b.total, a.total); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}

	out := make([]BreakdownRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, BreakdownRow{
			Name:                  g.key,
			Missing:               g.missing,
			TotalCount:            g.total,
			ScoredCount:           len(g.scores),
			ScoringCoverage:       Percent(len(g.scores), g.total),
			HighQualityCount:      g.hq,
			HighQualityPercentage: Percent(g.hq, g.total),
			AverageScore:          Mean(g.scores),
		})
	}
	return out
}

// Histogram counts scored leads per fixed-width bucket. Percentages are of
// all leads, scored or not.
func Histogram(leads []domain.Lead) []HistogramBucket {
	out := make([]HistogramBucket, len(HistogramBoundaries))
	for i, lo := range HistogramBoundaries {
		out[i] = HistogramBucket{Range: bucketLabel(i), Min: lo}
	}

	for _, l := range leads {
		s, ok := l.ScoreValue()
		if !ok {
			continue
		}
		out[bucketIndex(s)].Count++
	}
	for i := range out {
		out[i].Percentage = Percent(out[i].Count, len(leads))
	}
	return out
}

func bucketIndex(score int) int {
	for i := len(HistogramBoundaries) - 1; i > 0; i-- {
		if score >= HistogramBoundaries[i] {
			return i
		}
	}
	return 0
}

func bucketLabel(i int) string {
	lo := HistogramBoundaries[i]
	if i == len(HistogramBoundaries)-1 {
		return strconv.Itoa(lo) + "+"
	}
	return strconv.Itoa(lo) + "-" + strconv.Itoa(HistogramBoundaries[i+1]-1)
}

// Growth groups leads by UTC month of scrapedAt, newest first.
func Growth(leads []domain.Lead, months int) []GrowthRow {
	if months <= 0 {
		months = DefaultGrowthMonths
	}
	groups := groupBy(leads, AnalyticsHighQualityThreshold, func(l domain.Lead) (string, bool) {
		return l.ScrapedAt.UTC().Format("2006-01"), false
	})
	slices.SortFunc(groups, func(a, b *group) int { return strings.Compare(b.key, a.key) })
	if len(groups) > months {
		groups = groups[:months]
	}

	out := make([]GrowthRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, GrowthRow{
			Month:        g.key,
			Count:        g.total,
			ScoredCount:  len(g.scores),
			AverageScore: Mean(g.scores),
		})
	}
	return out
}

// groupBy returns groups in first-seen order.
func groupBy(leads []domain.Lead, threshold int, key func(domain.Lead) (string, bool)) []*group {
	idx := map[string]*group{}
	var out []*group
	for _, l := range leads {
		k, missing := key(l)
		if missing {
			k = ""
		}
		g, ok := idx[k]
		if !ok {
			g = &group{key: k, missing: missing}
			idx[k] = g
			out = append(out, g)
		}
		g.add(l, threshold)
	}
	return out
}
