package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

// JournalRepository stores journal entries and their lines in SQLite.
type JournalRepository struct {
	BaseRepository
}

func newJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.JournalRepositoryWithTx = (*JournalRepository)(nil)

func scanEntry(row rowScanner) (models.JournalEntry, error) {
	var (
		m                           models.JournalEntry
		txDate, createdAt, updateAt string
	)
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.Reference,
		&m.Description,
		&m.Status,
		&txDate,
		&m.CurrencyCode,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Metadata,
		&createdAt,
		&m.CreatedBy,
		&updateAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if m.TransactionDate, err = parseDate(txDate); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return m, err
	}
	if m.LastUpdatedAt, err = parseTimestamp(updateAt); err != nil {
		return m, err
	}
	return m, nil
}

func (r *JournalRepository) findOneEntry(ctx context.Context, where string, arg any) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ` + where
	m, err := scanEntry(r.db(ctx).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

// CreateEntry inserts the entry header followed by its lines.
func (r *JournalRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	m, err := mapping.ToModelJournalEntry(entry)
	if err != nil {
		return err
	}
	db := r.db(ctx)

	_, err = db.ExecContext(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.EntryID,
		m.TenantID,
		m.Reference,
		m.Description,
		string(m.Status),
		formatDate(m.TransactionDate),
		m.CurrencyCode,
		m.TotalDebit.String(),
		m.TotalCredit.String(),
		string(m.Metadata),
		formatTimestamp(m.CreatedAt),
		m.CreatedBy,
		formatTimestamp(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, reversalOfIndex) {
			return fmt.Errorf("%w: a reversal already references this entry", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, account_id, line_no, debit, credit, description, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, line := range lines {
		ml, err := mapping.ToModelJournalEntryLine(line)
		if err != nil {
			return err
		}
		_, err = db.ExecContext(ctx, lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.LineNo,
			ml.Debit.String(),
			ml.Credit.String(),
			ml.Description,
			nullableText(ml.Metadata),
			formatTimestamp(ml.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert line %d for journal entry %s: %w", ml.LineNo, m.EntryID, err)
		}
	}
	return nil
}

// FindEntryByID retrieves an entry header by its ID.
func (r *JournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findOneEntry(ctx, "entry_id = ?", entryID)
}

// FindReversalOf retrieves the entry that reverses entryID.
func (r *JournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findOneEntry(ctx, "json_extract(metadata, '$.reversalOf') = ?", entryID)
}

// FindLinesByEntryID retrieves the lines of an entry in line order.
func (r *JournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, a.code, l.line_no, l.debit, l.credit, l.description, l.metadata, l.created_at
		FROM journal_entry_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = ?
		ORDER BY l.line_no`
	rows, err := r.db(ctx).QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var (
			ml        models.JournalEntryLine
			createdAt string
		)
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
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row for journal entry %s: %w", entryID, err)
		}
		if ml.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
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
func (r *JournalRepository) ListEntries(ctx context.Context, tenantID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	fetchLimit := limit + 1

	args := []any{tenantID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id IS ?`
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (transaction_date < ? OR (transaction_date = ? AND created_at < ?))`
		args = append(args, formatDate(lastDate), formatDate(lastDate), formatTimestamp(lastCreatedAt))
	}
	query += ` ORDER BY transaction_date DESC, created_at DESC LIMIT ?`
	args = append(args, fetchLimit)

	rows, err := r.db(ctx).QueryContext(ctx, query, args...)
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
func (r *JournalRepository) SaveEntryStatus(ctx context.Context, entryID string, from, to domain.JournalStatus, metadata domain.EntryMetadata, updatedBy string, updatedAt time.Time) error {
	meta, err := mapping.MarshalEntryMetadata(metadata)
	if err != nil {
		return err
	}
	res, err := r.db(ctx).ExecContext(ctx, `
		UPDATE journal_entries
		SET status = ?, metadata = ?, last_updated_at = ?, last_updated_by = ?
		WHERE entry_id = ? AND status = ?`,
		string(to), string(meta), formatTimestamp(updatedAt), mapping.NullableString(updatedBy), entryID, string(from))
	if err != nil {
		return fmt.Errorf("failed to update status of journal entry %s: %w", entryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected for journal entry %s: %w", entryID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: journal entry %s is not %s", apperrors.ErrConflict, entryID, from)
	}
	return nil
}

// SumLinesForAccount totals the lines of posted or reversed entries.
// Amounts are TEXT, so the sum runs on decimals instead of SQLite's floating point SUM.
func (r *JournalRepository) SumLinesForAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := []any{accountID}
	query := `
		SELECT l.debit, l.credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = ? AND e.status IN ('POSTED', 'REVERSED')`
	if asOf != nil {
		query += ` AND e.transaction_date <= ?`
		args = append(args, formatDate(*asOf))
	}

	rows, err := r.db(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	debit, credit := decimal.Zero, decimal.Zero
	for rows.Next() {
		var d, c decimal.Decimal
		if err := rows.Scan(&d, &c); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to scan line amounts for account %s: %w", accountID, err)
		}
		debit = debit.Add(d)
		credit = credit.Add(c)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("error iterating line amounts for account %s: %w", accountID, err)
	}
	return debit, credit, nil
}
