package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"leadgen-engine/internal/analytics"
	"leadgen-engine/internal/poll"
)

const nightlyTopRecommendations = 3

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one batch: fetch every enabled source, ingest, score and report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.runner.PollOnce(cmd.Context(), a.config())
		if err != nil {
			return err
		}
		printRunSummary(cmd.OutOrStdout(), res)
		return nil
	},
}

func printRunSummary(w io.Writer, res poll.RunResult) {
	fmt.Fprintf(w, "fetched %d raw leads from %d sources", res.Fetched, len(res.PerSource))
	if len(res.FailedSources) > 0 {
		fmt.Fprintf(w, " (failed: %v)", res.FailedSources)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "admitted %d, rejected %d duplicates, %d invalid\n",
		res.Ingest.Admitted, res.Ingest.Rejected, res.Ingest.Invalid)
	fmt.Fprintf(w, "scored %d of %d candidates\n", res.Scoring.ScoredCount, res.Scoring.Candidates)

	if res.Snapshot == nil {
		return
	}
	o := res.Snapshot.Overall
	fmt.Fprintf(w, "total %d, coverage %d%%, high quality %d%%, average score %s\n",
		o.TotalLeads, o.ScoringCoverage, o.HighQualityPercentage, o.AverageScore)

	recs := res.Snapshot.Recommendations
	if len(recs) > nightlyTopRecommendations {
		recs = recs[:nightlyTopRecommendations]
	}
	for i, r := range recs {
		printRecommendation(w, i+1, r)
	}
}

func printRecommendation(w io.Writer, n int, r analytics.Recommendation) {
	fmt.Fprintf(w, "%d. [%s] %s: %s\n", n, r.Priority, r.Title, r.Description)
}
