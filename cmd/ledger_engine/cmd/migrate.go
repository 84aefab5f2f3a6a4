package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/sqlite"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

// migrateCmd applies the schema for the configured driver.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply all pending schema migrations.

Postgres migrations are read from MIGRATIONS_PATH (default ./migrations).
SQLite uses the embedded schema.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	if cfg.DBDriver == config.DriverSQLite {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Error("Failed to open SQLite database", slog.String("error", err.Error()))
			return err
		}
		defer db.Close()
		if err := sqlite.Migrate(ctx, db); err != nil {
			logger.Error("Failed to apply SQLite schema", slog.String("error", err.Error()))
			return err
		}
		logger.Info("SQLite schema applied", slog.String("path", cfg.SQLitePath))
		return nil
	}

	if err := database.RunPostgresMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}
	return nil
}
