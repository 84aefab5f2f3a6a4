package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/internal/platform/seed"
)

var (
	seedFile   string
	seedTenant string
	seedActor  string
)

// seedCmd loads a chart of accounts. Existing codes are left untouched.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a chart of accounts",
	Long: `Create the accounts listed in a YAML chart file, or the built-in
default chart when no file is given. Codes that already exist for the
tenant are skipped, so the command can be re-run safely.

Example:
  ledger_engine seed
  ledger_engine seed --file chart.yaml --tenant acme`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML chart of accounts (default: built-in chart)")
	seedCmd.Flags().StringVar(&seedTenant, "tenant", "", "tenant to seed (default: global chart)")
	seedCmd.Flags().StringVar(&seedActor, "actor", "seed", "actor recorded on created accounts")
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	seeds := seed.Default()
	if seedFile != "" {
		loaded, err := seed.LoadFile(seedFile)
		if err != nil {
			logger.Error("Failed to load chart file", slog.String("file", seedFile), slog.String("error", err.Error()))
			return err
		}
		seeds = loaded
	}

	repos, closeFn, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("error", err.Error()))
		return err
	}
	defer closeFn()

	var tenantID *string
	if seedTenant != "" {
		tenantID = &seedTenant
	}

	container := services.NewServiceContainer(cfg, repos, metrics.NopRecorder{}, logger)
	report, err := container.Chart.SeedAccounts(ctx, tenantID, seeds, seedActor)
	if err != nil {
		logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
		return err
	}

	printSeedReport(cmd, report)
	return nil
}

func printSeedReport(cmd *cobra.Command, report *domain.SeedReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== Chart of accounts ===")
	fmt.Fprintf(out, "Created: %d\n", len(report.Created))
	fmt.Fprintf(out, "Skipped: %d\n", len(report.Skipped))
	fmt.Fprintf(out, "Linked:  %d\n", len(report.Linked))
}
