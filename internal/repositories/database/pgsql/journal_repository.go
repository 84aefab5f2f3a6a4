package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

// reversalOfIndex enforces at most one reversal per original entry.
const reversalOfIndex = "uq_journal_entries_reversal_of"

const entryColumns = `entry_id, tenant_id, reference, description, status, transaction_date, currency_code,
	total_debit, total_credit, metadata, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.Reference,
		&m.Description,
		&m.Status,
		&m.TransactionDate,
		&m.CurrencyCode,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxJournalRepository) findOneEntry(ctx context.Context, where string, arg any) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + where + `;`
	m, err := scanEntry(r.db(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query journal entry: %w", err)
	}
	entry, err := mapping.ToDomainJournalEntry(m)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry inserts the entry header and queues every line in one batch.
func (r *PgxJournalRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	m, err := mapping.ToModelJournalEntry(entry)
	if err != nil {
		return err
	}
	db := r.db(ctx)

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
	_, err = db.Exec(ctx, entryQuery,
		m.EntryID,
		m.TenantID,
		m.Reference,
		m.Description,
		m.Status,
		m.TransactionDate,
		m.CurrencyCode,
		m.TotalDebit,
		m.TotalCredit,
		m.Metadata,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, reversalOfIndex) {
			return fmt.Errorf("%w: a reversal already references this entry", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, line_no, debit, credit, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for _, line := range lines {
		ml, err := mapping.ToModelJournalEntryLine(line)
		if err != nil {
			return err
		}
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.LineNo,
			ml.Debit,
			ml.Credit,
			ml.Description,
			ml.Metadata,
			ml.CreatedAt,
		)
	}

	// Close reports the first failed statement in the batch.
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines for journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findOneEntry(ctx, "entry_id = $1", entryID)
}

// FindReversalOf retrieves the entry that reverses entryID.
func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findOneEntry(ctx, "metadata->>'reversalOf' = $1", entryID)
}

// FindLinesByEntryID retrieves the lines of an entry in line order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, a.code, l.line_no, l.debit, l.credit, l.description, l.metadata, l.created_at
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = $1
		ORDER BY l.line_no;`
	rows, err := r.db(ctx).Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var ml models.JournalEntryLine
		if err := rows.Scan(
			&ml.LineID,
			&ml.EntryID,
			&ml.AccountID,
			&ml.AccountCode,
			&ml.LineNo,
			&ml.Debit,
			&ml.Credit,
			&ml.Description,
			&ml.Metadata,
			&ml.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for journal entry %s: %w", entryID, err)
		}
		line, err := mapping.ToDomainJournalEntryLine(ml)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for journal entry %s: %w", entryID, err)
	}
	return lines, nil
}

// ListEntries retrieves a page of entry headers, newest transaction date first.
// It returns the entries, a token for the next page, and an error.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	// We fetch one extra row to determine if there's a next page.
	fetchLimit := limit + 1

	args := []any{tenantID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id IS NOT DISTINCT FROM $1`
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (transaction_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, fetchLimit)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	page := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		page = append(page, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var next *string
	if len(page) > limit {
		last := page[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		next = &token
		page = page[:limit]
	}

	entries := make([]domain.JournalEntry, 0, len(page))
	for _, m := range page {
		entry, err := mapping.ToDomainJournalEntry(m)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}
	return entries, next, nil
}

// SaveEntryStatus performs a compare-and-set on the entry status and replaces its metadata.
func (r *PgxJournalRepository) SaveEntryStatus(ctx context.Context, entryID string, from, to domain.JournalStatus, metadata domain.EntryMetadata, updatedBy string, updatedAt time.Time) error {
	meta, err := mapping.MarshalEntryMetadata(metadata)
	if err != nil {
		return err
	}
	query := `
		UPDATE journal_entries
		SET status = $1, metadata = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $5 AND status = $6;`
	tag, err := r.db(ctx).Exec(ctx, query, string(to), meta, updatedAt, mapping.NullableString(updatedBy), entryID, string(from))
	if err != nil {
		return fmt.Errorf("failed to update status of journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not %s", apperrors.ErrConflict, entryID, from)
	}
	return nil
}

// SumLinesForAccount totals the debit and credit columns of every line on a posted or reversed entry.
func (r *PgxJournalRepository) SumLinesForAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND e.status IN ('POSTED', 'REVERSED')
		  AND ($2::date IS NULL OR e.transaction_date <= $2::date);`
	var debit, credit decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, accountID, asOf).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum lines for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}
