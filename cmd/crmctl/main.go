// Command crmctl runs lead ingestion, reports and bulk deletes against the
// record API without the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/config"
	"github.com/pipeline-crm/leadboard/internal/infra/integration/apper"
	"github.com/pipeline-crm/leadboard/internal/logger"
	"github.com/pipeline-crm/leadboard/internal/usecase"
)

var (
	// envFile is set by the --env-file flag.
	envFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
	app *services
)

// services holds the use cases the subcommands drive.
type services struct {
	leads   *usecase.LeadUseCase
	ingest  *usecase.IngestUseCase
	reports *usecase.ReportUseCase
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "crmctl manages the lead pipeline from the command line",
	Long: `crmctl talks to the same record API as the leadboard server. It bulk
creates leads from pasted URLs, prints the daily and follow-up reports and
bulk deletes leads.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log use case activity to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(followUpsCmd)
	rootCmd.AddCommand(leadsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "crmctl v1.0.0")
	},
}

func initServices(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		log = logger.New("local")
	} else {
		log = zap.NewNop()
	}

	client := apper.NewClient(cfg.ApperURL, cfg.ApperProjectID, cfg.ApperPublicKey)
	leadStore := apper.NewLeadStore(client)
	sink := usecase.LogNotifier{Log: log}

	app = &services{
		leads:   usecase.NewLeadUseCase(leadStore, usecase.NewPipelineSync(apper.NewDealStore(client), nil, log), sink, log),
		ingest:  usecase.NewIngestUseCase(leadStore, sink, log),
		reports: usecase.NewReportUseCase(leadStore, log),
	}
	return nil
}
