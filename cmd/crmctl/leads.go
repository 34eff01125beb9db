package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage leads",
}

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <id...>",
	Short: "Delete leads by id",
	Long: `Delete removes each lead on its own. Leads that fail to delete are
listed under "failed" and the command exits non-zero.

Example:
  crmctl leads delete 12 13 14
  crmctl leads delete 12,13,14`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		res, err := app.leads.BulkDelete(cmd.Context(), ids)
		if err != nil {
			return fmt.Errorf("delete leads: %w", err)
		}
		if err := printJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if len(res.Failed) > 0 {
			return fmt.Errorf("%s", res.Message)
		}
		return nil
	},
}

func init() {
	leadsCmd.AddCommand(leadsDeleteCmd)
}
