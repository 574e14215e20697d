package analytics

// Fixed heuristics, not a learned model. Percent multipliers: 115 means +15%.
const (
	WeeklyGrowthPercent      = 115
	HighQualityUpliftPercent = 120
	CoverageStep             = 10
	TopIndustryRatePercent   = 30
	TopLocationRatePercent   = 35
	TargetHighQualityPercent = 40
)

type Predictions struct {
	NextWeekLeads           int      `json:"nextWeekLeads"`
	TargetHighQuality       int      `json:"targetHighQuality"`
	TargetScoringCoverage   int      `json:"targetScoringCoverage"`
	TopPerformingIndustries []string `json:"topPerformingIndustries"`
	TopPerformingLocations  []string `json:"topPerformingLocations"`
}

func Predict(o OverallStats, industries, locations []BreakdownRow) Predictions {
	return Predictions{
		NextWeekLeads:           scale(o.TotalLeads, WeeklyGrowthPercent),
		TargetHighQuality:       scale(o.HighQualityLeads, HighQualityUpliftPercent),
		TargetScoringCoverage:   min(o.ScoringCoverage+CoverageStep, 100),
		TopPerformingIndustries: topPerforming(industries, TopIndustryRatePercent),
		TopPerformingLocations:  topPerforming(locations, TopLocationRatePercent),
	}
}

// topPerforming keeps rows whose high-quality fraction strictly exceeds
// ratePercent. The result is never nil.
func topPerforming(rows []BreakdownRow, ratePercent int) []string {
	out := []string{}
	for _, r := range rows {
		if r.TotalCount > 0 && r.HighQualityCount*100 > ratePercent*r.TotalCount {
			out = append(out, r.Label())
		}
	}
	return out
}

// scale returns round-half-up(n * pct / 100) for non-negative n.
func scale(n, pct int) int {
	return (n*pct + 50) / 100
}
