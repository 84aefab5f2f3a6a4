package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const accountColumns = `account_id, tenant_id, code, name, account_type, parent_account_id, level,
	is_active, is_system, created_at, created_by, last_updated_at, last_updated_by`

// AccountRepository stores the chart of accounts in SQLite.
type AccountRepository struct {
	BaseRepository
}

func newAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.AccountRepositoryWithTx = (*AccountRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		m                    models.Account
		createdAt, updatedAt string
	)
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Level,
		&m.IsActive,
		&m.IsSystem,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, err
	}
	if m.LastUpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return m, err
	}
	return m, nil
}

// FindAccountsByCodes retrieves the tenant's accounts for the given codes, keyed by code.
func (r *AccountRepository) FindAccountsByCodes(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	args := make([]any, 0, len(codes)+1)
	args = append(args, tenantID)
	for _, c := range codes {
		args = append(args, c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(codes)), ", ")
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id IS ? AND code IN (` + placeholders + `)`

	rows, err := r.db(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by codes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result[m.Code] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return result, nil
}

// FindAccountByCode retrieves one account of the tenant by code.
func (r *AccountRepository) FindAccountByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id IS ? AND code = ?`
	return r.findOne(ctx, query, tenantID, code)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	m, err := scanAccount(r.db(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// CreateAccountIfAbsent inserts the account unless the tenant already has one with the same code.
func (r *AccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error) {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`
	res, err := r.db(ctx).ExecContext(ctx, query,
		m.AccountID,
		m.TenantID,
		m.Code,
		m.Name,
		string(m.AccountType),
		m.ParentAccountID,
		m.Level,
		m.IsActive,
		m.IsSystem,
		formatTimestamp(m.CreatedAt),
		m.CreatedBy,
		formatTimestamp(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert account %s: %w", m.Code, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for account %s: %w", m.Code, err)
	}
	return n == 1, nil
}

// SaveAccountParent links an account to its parent.
func (r *AccountRepository) SaveAccountParent(ctx context.Context, accountID, parentAccountID string, level int, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET parent_account_id = ?, level = ?, last_updated_at = ?, last_updated_by = ?
		WHERE account_id = ?`
	res, err := r.db(ctx).ExecContext(ctx, query, parentAccountID, level, formatTimestamp(updatedAt), mapping.NullableString(updatedBy), accountID)
	if err != nil {
		return fmt.Errorf("failed to update parent of account %s: %w", accountID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
