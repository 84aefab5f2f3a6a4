package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const accountColumns = `account_id, tenant_id, code, name, account_type, parent_account_id, level,
	is_active, is_system, created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository stores the chart of accounts in Postgres.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
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
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindAccountsByCodes retrieves the tenant's accounts for the given codes, keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id IS NOT DISTINCT FROM $1 AND code = ANY($2);`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, codes)
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
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id IS NOT DISTINCT FROM $1 AND code = $2;`
	m, err := scanAccount(r.db(ctx).QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// CreateAccountIfAbsent inserts the account unless the tenant already has one with the same code.
func (r *PgxAccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error) {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING;`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.TenantID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Level,
		m.IsActive,
		m.IsSystem,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert account %s: %w", m.Code, err)
	}
	return tag.RowsAffected() == 1, nil
}

// SaveAccountParent links an account to its parent.
func (r *PgxAccountRepository) SaveAccountParent(ctx context.Context, accountID, parentAccountID string, level int, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET parent_account_id = $1, level = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $5;`
	tag, err := r.db(ctx).Exec(ctx, query, parentAccountID, level, updatedAt, mapping.NullableString(updatedBy), accountID)
	if err != nil {
		return fmt.Errorf("failed to update parent of account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
