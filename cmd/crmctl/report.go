package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print pipeline reports",
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Leads created today, grouped by sales rep",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := app.reports.DailyReport(cmd.Context())
		if err != nil {
			return fmt.Errorf("daily report: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

var reportDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "The daily report plus the follow-ups due this week",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := app.reports.Digest(cmd.Context())
		if err != nil {
			return fmt.Errorf("digest: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), d)
	},
}

var followUpsCmd = &cobra.Command{
	Use:     "followups",
	Aliases: []string{"follow-ups"},
	Short:   "Leads with a follow-up due in the next seven days",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := app.reports.PendingFollowUps(cmd.Context())
		if err != nil {
			return fmt.Errorf("follow-ups: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), leads)
	},
}

func init() {
	reportCmd.AddCommand(reportDailyCmd)
	reportCmd.AddCommand(reportDigestCmd)
}
