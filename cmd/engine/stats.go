package main

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the analytics snapshot (overall, trend, breakdowns, histogram, recommendations)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if dash, _ := cmd.Flags().GetBool("dashboard"); dash {
			sum, err := a.analytics.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sum)
		}

		snap, err := a.analytics.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), snap)
	},
}

func init() {
	statsCmd.Flags().Bool("dashboard", false, "print the dashboard summary instead of the full snapshot")
}
