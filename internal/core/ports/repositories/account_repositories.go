package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
// A nil tenantID addresses the global (system-wide) chart.
type AccountReader interface {
	// FindAccountsByCodes returns the accounts matching codes within the tenant, keyed by code.
	// Missing codes are simply absent from the map.
	FindAccountsByCodes(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error)

	// FindAccountByCode returns apperrors.ErrNotFound when the code is unknown.
	FindAccountByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// CreateAccountIfAbsent inserts the account unless (tenant, code) already exists.
	// It reports whether a row was inserted.
	CreateAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error)

	// SaveAccountParent sets the parent link and level of an account.
	SaveAccountParent(ctx context.Context, accountID, parentAccountID string, level int, updatedBy string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
