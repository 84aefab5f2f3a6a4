package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ChartReaderSvc defines lookups against a tenant's chart of accounts.
type ChartReaderSvc interface {
	// ResolveAccounts maps each known code to its account. Duplicate codes collapse and
	// unknown codes are omitted; neither is an error.
	ResolveAccounts(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error)

	// FindByCode returns a NotFound error when the code is unknown to the tenant.
	FindByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error)
}

// ChartWriterSvc defines bulk maintenance of the chart of accounts.
type ChartWriterSvc interface {
	// SeedAccounts creates the missing accounts and back-fills parent links. Re-running it is a no-op.
	SeedAccounts(ctx context.Context, tenantID *string, seeds []domain.AccountSeed, actorID string) (*domain.SeedReport, error)
}

// ChartOfAccountsSvc combines all chart-related service interfaces
type ChartOfAccountsSvc interface {
	ChartReaderSvc
	ChartWriterSvc
}
