package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

var (
	ingestFile string
	ingestTmpl usecase.LeadTemplate
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Create one lead per website URL",
	Long: `Ingest parses website URLs out of the arguments, a file or stdin and
creates one lead for each. Duplicates are dropped; failures do not stop the
batch.

Example:
  crmctl ingest acme.io beta.dev
  pbpaste | crmctl ingest --file - --status Hotlist`,
	RunE: runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVarP(&ingestFile, "file", "f", "", "read URLs from file (- for stdin)")
	f.StringVar(&ingestTmpl.Status, "status", "", "status for the new leads")
	f.StringVar(&ingestTmpl.Category, "category", "", "category for the new leads")
	f.StringVar(&ingestTmpl.TeamSize, "team-size", "", "team size for the new leads")
	f.StringVar(&ingestTmpl.FundingType, "funding-type", "", "funding type for the new leads")
	f.Float64Var(&ingestTmpl.ARR, "arr", 0, "ARR in millions")
	f.StringVar(&ingestTmpl.AddedByName, "added-by", "", "name recorded as the creator")
}

func runIngest(cmd *cobra.Command, args []string) error {
	input, err := readInput(args, ingestFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := app.ingest.Ingest(cmd.Context(), input, ingestTmpl)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if err := printJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if len(res.Created) == 0 {
		return fmt.Errorf("no leads created")
	}
	return nil
}
