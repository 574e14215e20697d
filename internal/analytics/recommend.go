package analytics

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Recommendation targets one metric. Current and Target are in the metric's
// units; for the industry and location rules Current is the best group rate.
type Recommendation struct {
	Rule        string   `json:"rule"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Action      string   `json:"action"`
	Metric      string   `json:"metric"`
	Current     int      `json:"current"`
	Target      int      `json:"target"`
	Items       []string `json:"items,omitempty"`
}

// Input is what the rules read. Rules never modify it.
type Input struct {
	Overall     OverallStats
	Industries  []BreakdownRow
	Locations   []BreakdownRow
	Predictions Predictions
}

type rule func(Input) Recommendation

// rules run in this order; callers may truncate the output without re-sorting.
var rules = []rule{
	coverageRule,
	industriesRule,
	locationsRule,
	qualityTargetRule,
	growthRule,
}

func Recommend(in Input) []Recommendation {
	out := make([]Recommendation, 0, len(rules))
	for _, r := range rules {
		out = append(out, r(in))
	}
	return out
}

func coverageRule(in Input) Recommendation {
	cur := in.Overall.ScoringCoverage
	target := min(cur+CoverageStep, 100)
	return Recommendation{
		Rule:        "coverage",
		Title:       "Improve Scoring Coverage",
		Description: fmt.Sprintf("Current scoring coverage: %d%%. Target: %d%% by running daily scoring jobs.", cur, target),
		Priority:    PriorityHigh,
		Action:      "Schedule daily scoring job",
		Metric:      "scoringCoverage",
		Current:     cur,
		Target:      target,
	}
}

func industriesRule(in Input) Recommendation {
	top := in.Predictions.TopPerformingIndustries
	desc := "No industries currently exceed a 30% high-quality rate."
	if len(top) > 0 {
		desc = "Target industries with highest quality rates: " + strings.Join(top, ", ")
	}
	return Recommendation{
		Rule:        "top_industries",
		Title:       "Focus on High-Performing Industries",
		Description: desc,
		Priority:    PriorityMedium,
		Action:      "Prioritize outreach to top industries",
		Metric:      "highQualityPercentage",
		Current:     bestRate(in.Industries),
		Target:      TopIndustryRatePercent,
		Items:       top,
	}
}

func locationsRule(in Input) Recommendation {
	top := in.Predictions.TopPerformingLocations
	desc := "No locations currently exceed a 35% high-quality rate."
	if len(top) > 0 {
		desc = "Focus on locations with highest quality rates: " + strings.Join(top, ", ")
	}
	return Recommendation{
		Rule:        "top_locations",
		Title:       "Target Top Locations",
		Description: desc,
		Priority:    PriorityMedium,
		Action:      "Source more leads from top locations",
		Metric:      "highQualityPercentage",
		Current:     bestRate(in.Locations),
		Target:      TopLocationRatePercent,
		Items:       top,
	}
}

func qualityTargetRule(in Input) Recommendation {
	cur := in.Overall.HighQualityPercentage
	return Recommendation{
		Rule:        "quality_target",
		Title:       "Increase High-Quality Lead Generation",
		Description: fmt.Sprintf("Current high-quality rate: %d%%. Target: %d%% by improving scoring criteria.", cur, TargetHighQualityPercent),
		Priority:    PriorityLow,
		Action:      "Refine scoring algorithm",
		Metric:      "highQualityPercentage",
		Current:     cur,
		Target:      TargetHighQualityPercent,
	}
}

func growthRule(in Input) Recommendation {
	p := in.Predictions
	total := in.Overall.TotalLeads
	return Recommendation{
		Rule:  "growth",
		Title: "Optimize Lead Growth",
		Description: fmt.Sprintf("Projected next-week volume: %d leads (+%d). High-quality target: %d leads at 15%% weekly growth.",
			p.NextWeekLeads, p.NextWeekLeads-total, p.TargetHighQuality),
		Priority: PriorityMedium,
		Action:   "Increase scraping frequency",
		Metric:   "totalLeads",
		Current:  total,
		Target:   p.NextWeekLeads,
	}
}

func bestRate(rows []BreakdownRow) int {
	best := 0
	for _, r := range rows {
		best = max(best, r.HighQualityPercentage)
	}
	return best
}
