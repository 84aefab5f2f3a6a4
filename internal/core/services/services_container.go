package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// PostingConfigFromConfig maps application configuration onto the posting engine tunables.
func PostingConfigFromConfig(cfg *config.Config) PostingConfig {
	pc := DefaultPostingConfig()
	if cfg == nil {
		return pc
	}
	if cfg.DefaultCurrency != "" {
		pc.DefaultCurrency = cfg.DefaultCurrency
	}
	// Zero is a valid scale (whole units) and a valid tolerance (exact balancing).
	pc.Tolerance = cfg.BalanceTolerance
	pc.AmountScale = cfg.AmountScale
	if cfg.ReversalPrefix != "" {
		pc.ReversalPrefix = cfg.ReversalPrefix
	}
	return pc
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, recorder metrics.Recorder, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The chart is shared by posting and balance lookups.
	container.Chart = NewChartService(repos.AccountRepo, logger)
	container.Posting = NewPostingService(repos.JournalRepo, container.Chart, PostingConfigFromConfig(cfg), recorder, logger)
	container.Balance = NewBalanceService(repos.JournalRepo, container.Chart, recorder, logger)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ChartOfAccountsSvc = (*chartService)(nil)
	_ portssvc.PostingSvc         = (*postingService)(nil)
	_ portssvc.BalanceSvc         = (*balanceService)(nil)
)
