package analytics

import (
	"time"

	"leadgen-engine/internal/domain"
)

const recentWindow = 24 * time.Hour

type DashboardSummary struct {
	TotalLeads            int `json:"totalLeads"`
	ScoredLeads           int `json:"scoredLeads"`
	ScoringCoverage       int `json:"scoringCoverage"`
	HighQualityLeads      int `json:"highQualityLeads"`
	HighQualityPercentage int `json:"highQualityPercentage"`
	RecentLeads           int `json:"recentLeads"`
	RecentQualityRate     int `json:"recentQualityRate"`
	Threshold             int `json:"threshold"`
}

// Dashboard summarizes the corpus at the dashboard threshold. Recent leads
// are those scraped within 24h of now. RecentQualityRate divides the total
// high-quality count by the recent count and can exceed 100.
func Dashboard(leads []domain.Lead, now time.Time) DashboardSummary {
	o := Overall(leads, DashboardHighQualityThreshold)

	since := now.Add(-recentWindow)
	recent := 0
	for _, l := range leads {
		if !l.ScrapedAt.Before(since) {
			recent++
		}
	}

	return DashboardSummary{
		TotalLeads:            o.TotalLeads,
		ScoredLeads:           o.ScoredLeads,
		ScoringCoverage:       o.ScoringCoverage,
		HighQualityLeads:      o.HighQualityLeads,
		HighQualityPercentage: o.HighQualityPercentage,
		RecentLeads:           recent,
		RecentQualityRate:     Percent(o.HighQualityLeads, recent),
		Threshold:             DashboardHighQualityThreshold,
	}
}
