package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"leadgen-engine/internal/domain"
)

var day0 = time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)

func scored(name string, score int) domain.Lead {
	return domain.Lead{ID: name, CompanyName: name, Score: &score, ScrapedAt: day0}
}

func unscored(name string) domain.Lead {
	return domain.Lead{ID: name, CompanyName: name, ScrapedAt: day0}
}

func TestPercent(t *testing.T) {
	tests := []struct{ n, d, want int }{
		{0, 0, 0},
		{5, 0, 0},
		{2, 3, 67},
		{1, 3, 33},
		{1, 2, 50},
		{1, 8, 13},
		{3, 3, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.n, tt.d); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestStatsNeedEnoughData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                         string
		xs                           []int
		mean, median, stddev, lo, hi Stat
	}{
		{"none", nil, NA(), NA(), NA(), NA(), NA()},
		{"one", []int{7}, Of(7), NA(), NA(), Of(7), Of(7)},
		{"two", []int{10, 35}, Of(22.5), Of(22.5), Of(12.5), Of(10), Of(35)},
		{"odd", []int{9, 1, 5}, Of(5), Of(5), Of(3.265986323710904), Of(1), Of(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			check := func(what string, got, want Stat) {
				if got.Valid != want.Valid || got.Rounded() != want.Rounded() {
					t.Errorf("%s = %v, want %v", what, got, want)
				}
			}
			check("mean", Mean(tt.xs), tt.mean)
			check("median", Median(tt.xs), tt.median)
			check("stddev", StdDev(tt.xs), tt.stddev)
			check("min", Min(tt.xs), tt.lo)
			check("max", Max(tt.xs), tt.hi)
		})
	}
}

func TestStatJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Stat{"a": NA(), "b": Of(22.5), "c": Of(10.0 / 3)})
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"a":"N/A","b":22.5,"c":3.33}`; string(b) != want {
		t.Fatalf("got %s, want %s", b, want)
	}

	var back map[string]Stat
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back["a"].Valid || !back["b"].Valid || back["b"].Value != 22.5 {
		t.Fatalf("unmarshal = %+v", back)
	}
}

func TestOverallEmpty(t *testing.T) {
	got := Overall(nil, AnalyticsHighQualityThreshold)
	if got.TotalLeads != 0 || got.ScoringCoverage != 0 || got.HighQualityPercentage != 0 {
		t.Fatalf("counts = %+v", got)
	}
	for name, s := range map[string]Stat{
		"average": got.AverageScore, "median": got.MedianScore, "stddev": got.StdDev,
		"min": got.MinScore, "max": got.MaxScore,
	} {
		if s.Valid {
			t.Errorf("%s should be N/A, got %v", name, s)
		}
	}
}

func TestOverallScenario(t *testing.T) {
	got := Overall([]domain.Lead{scored("A", 35), scored("B", 10), unscored("C")}, AnalyticsHighQualityThreshold)

	if got.TotalLeads != 3 || got.ScoredLeads != 2 || got.HighQualityLeads != 1 {
		t.Fatalf("counts = %+v", got)
	}
	if got.ScoringCoverage != 67 || got.HighQualityPercentage != 33 {
		t.Fatalf("percentages = %d/%d", got.ScoringCoverage, got.HighQualityPercentage)
	}
	if got.AverageScore.Value != 22.5 || got.MinScore.Value != 10 || got.MaxScore.Value != 35 {
		t.Fatalf("stats = %+v", got)
	}
}

func TestHistogramScenario(t *testing.T) {
	var leads []domain.Lead
	for i, s := range []int{5, 15, 25, 65} {
		leads = append(leads, scored(fmt.Sprint(i), s))
	}
	got := Histogram(leads)

	want := map[string]int{"0-9": 1, "10-19": 1, "20-29": 1, "30-39": 0, "40-49": 0, "50-59": 0, "60+": 1}
	if len(got) != len(want) {
		t.Fatalf("buckets = %d, want %d", len(got), len(want))
	}
	for _, b := range got {
		if b.Count != want[b.Range] {
			t.Errorf("bucket %s = %d, want %d", b.Range, b.Count, want[b.Range])
		}
		if b.Count == 1 && b.Percentage != 25 {
			t.Errorf("bucket %s percentage = %d, want 25", b.Range, b.Percentage)
		}
	}
}

func TestHistogramSkipsUnscored(t *testing.T) {
	got := Histogram([]domain.Lead{scored("A", 60), unscored("B")})
	if got[0].Count != 0 || got[len(got)-1].Count != 1 || got[len(got)-1].Percentage != 50 {
		t.Fatalf("histogram = %+v", got)
	}
	for _, b := range Histogram(nil) {
		if b.Count != 0 || b.Percentage != 0 {
			t.Fatalf("empty histogram bucket = %+v", b)
		}
	}
}

func TestIndustryBreakdownScenario(t *testing.T) {
	leads := []domain.Lead{scored("a", 40), scored("b", 10), scored("c", 50)}
	leads[0].Industry, leads[1].Industry, leads[2].Industry = "X", "X", "Y"

	got := IndustryBreakdown(leads, 10, AnalyticsHighQualityThreshold)
	if len(got) != 2 {
		t.Fatalf("rows = %+v", got)
	}
	x, y := got[0], got[1]
	if x.Name != "X" || x.TotalCount != 2 || x.HighQualityCount != 1 || x.AverageScore.Value != 25 {
		t.Errorf("X = %+v", x)
	}
	if y.Name != "Y" || y.TotalCount != 1 || y.HighQualityCount != 1 || y.AverageScore.Value != 50 {
		t.Errorf("Y = %+v", y)
	}
}

func TestBreakdownMissingGroupAndLimit(t *testing.T) {
	leads := []domain.Lead{unscored("a"), unscored("b"), unscored("c"), unscored("d")}
	leads[0].Location = "Austin, TX"
	leads[1].Location = "Dallas, TX"
	leads[2].Location = "Paris, France"

	got := LocationBreakdown(leads, 10, AnalyticsHighQualityThreshold)
	if len(got) != 3 {
		t.Fatalf("rows = %+v", got)
	}
	if got[0].Name != "TX" || got[0].TotalCount != 2 || got[0].AverageScore.Valid {
		t.Errorf("first = %+v", got[0])
	}
	// ties sort by name; the missing group has the empty name
	if !got[1].Missing || got[1].Label() != missingLabel || got[2].Name != "France" {
		t.Errorf("tail = %+v", got[1:])
	}

	if got := LocationBreakdown(leads, 1, AnalyticsHighQualityThreshold); len(got) != 1 {
		t.Errorf("limit ignored: %+v", got)
	}
}

func TestTrendNewestFirst(t *testing.T) {
	var leads []domain.Lead
	for i := 0; i < 3; i++ {
		l := scored(fmt.Sprint(i), 30+i)
		l.ScrapedAt = day0.AddDate(0, 0, -i)
		leads = append(leads, l)
	}
	extra := unscored("x")
	extra.ScrapedAt = day0.Add(-time.Hour)
	leads = append(leads, extra)

	got := Trend(leads, 2, AnalyticsHighQualityThreshold)
	if len(got) != 2 {
		t.Fatalf("rows = %+v", got)
	}
	if got[0].Date != "2025-04-10" || got[1].Date != "2025-04-09" {
		t.Fatalf("dates = %s, %s", got[0].Date, got[1].Date)
	}
	if got[0].DailyCount != 2 || got[0].ScoringCoverage != 50 || got[0].HighQualityPercentage != 50 {
		t.Fatalf("newest = %+v", got[0])
	}
}

func TestGrowthByMonth(t *testing.T) {
	a, b, c := scored("a", 10), scored("b", 20), unscored("c")
	b.ScrapedAt = day0.AddDate(0, -1, 0)
	c.ScrapedAt = day0.AddDate(0, -1, 0)

	got := Growth([]domain.Lead{a, b, c}, 12)
	if len(got) != 2 || got[0].Month != "2025-04" || got[1].Month != "2025-03" {
		t.Fatalf("growth = %+v", got)
	}
	if got[1].Count != 2 || got[1].ScoredCount != 1 || got[1].AverageScore.Value != 20 {
		t.Fatalf("march = %+v", got[1])
	}
}

func TestDashboard(t *testing.T) {
	now := day0
	recent, old := scored("recent", 25), scored("old", 24)
	recent.ScrapedAt = now.Add(-time.Hour)
	old.ScrapedAt = now.Add(-48 * time.Hour)

	got := Dashboard([]domain.Lead{recent, old}, now)
	if got.HighQualityLeads != 1 || got.Threshold != DashboardHighQualityThreshold {
		t.Fatalf("dashboard threshold not applied: %+v", got)
	}
	if got.RecentLeads != 1 || got.RecentQualityRate != 100 {
		t.Fatalf("recent = %+v", got)
	}
	if got := Dashboard(nil, now); got.RecentQualityRate != 0 || got.ScoringCoverage != 0 {
		t.Fatalf("empty dashboard = %+v", got)
	}
}

func TestPredictions(t *testing.T) {
	o := OverallStats{TotalLeads: 10, HighQualityLeads: 3, ScoringCoverage: 95}
	rows := []BreakdownRow{
		{Name: "X", TotalCount: 10, HighQualityCount: 3},
		{Name: "Y", TotalCount: 10, HighQualityCount: 4},
		{Missing: true, TotalCount: 2, HighQualityCount: 2},
	}
	got := Predict(o, rows, rows)

	if got.NextWeekLeads != 12 || got.TargetHighQuality != 4 || got.TargetScoringCoverage != 100 {
		t.Fatalf("predictions = %+v", got)
	}
	// 30% is not above the industry threshold; 40% is above both.
	if fmt.Sprint(got.TopPerformingIndustries) != "[Y Unspecified]" {
		t.Errorf("industries = %v", got.TopPerformingIndustries)
	}
	if fmt.Sprint(got.TopPerformingLocations) != "[Y Unspecified]" {
		t.Errorf("locations = %v", got.TopPerformingLocations)
	}
}

func TestRecommendationsOrder(t *testing.T) {
	snap := Build(nil, day0, Options{})
	recs := snap.Recommendations

	wantRules := []string{"coverage", "top_industries", "top_locations", "quality_target", "growth"}
	wantPrio := []Priority{PriorityHigh, PriorityMedium, PriorityMedium, PriorityLow, PriorityMedium}
	if len(recs) != len(wantRules) {
		t.Fatalf("recs = %d", len(recs))
	}
	for i, r := range recs {
		if r.Rule != wantRules[i] || r.Priority != wantPrio[i] {
			t.Errorf("rec %d = %s/%s, want %s/%s", i, r.Rule, r.Priority, wantRules[i], wantPrio[i])
		}
	}
	if recs[0].Target != 10 {
		t.Errorf("coverage target = %d, want 10", recs[0].Target)
	}
	if len(recs[1].Items) != 0 {
		t.Errorf("no industries should qualify on an empty store: %v", recs[1].Items)
	}
	if recs[3].Target != TargetHighQualityPercent {
		t.Errorf("quality target = %d", recs[3].Target)
	}
}

func TestRecommendationsCoverageCapped(t *testing.T) {
	recs := Recommend(Input{Overall: OverallStats{ScoringCoverage: 96}})
	if recs[0].Target != 100 {
		t.Fatalf("target = %d, want 100", recs[0].Target)
	}
}

type stubReader struct {
	leads []domain.Lead
	err   error
}

func (s stubReader) AllLeads(context.Context) ([]domain.Lead, error) { return s.leads, s.err }

func TestServiceRecomputes(t *testing.T) {
	r := &stubReader{leads: []domain.Lead{scored("A", 35)}}
	svc := NewService(r, Options{})
	ctx := context.Background()

	got, err := svc.OverallStats(ctx)
	if err != nil || got.TotalLeads != 1 {
		t.Fatalf("first = %+v, %v", got, err)
	}

	r.leads = append(r.leads, unscored("B"))
	got, err = svc.OverallStats(ctx)
	if err != nil || got.TotalLeads != 2 || got.ScoringCoverage != 50 {
		t.Fatalf("second = %+v, %v", got, err)
	}

	r.err = errors.New("store down")
	if _, err := svc.Snapshot(ctx); !errors.Is(err, r.err) {
		t.Fatalf("err = %v", err)
	}
}
