package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrations returns the ledger schema for SQLite.
// Each string is a single SQL statement (SQLite executes one at a time).
// Amounts, dates and timestamps are TEXT so values round-trip without float or driver time conversion.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id        TEXT PRIMARY KEY,
			tenant_id         TEXT,
			code              TEXT NOT NULL,
			name              TEXT NOT NULL,
			account_type      TEXT NOT NULL CHECK (account_type IN ('ASSET', 'LIABILITY', 'EQUITY', 'REVENUE', 'EXPENSE')),
			parent_account_id TEXT REFERENCES accounts (account_id),
			level             INTEGER NOT NULL DEFAULT 0,
			is_active         INTEGER NOT NULL DEFAULT 1,
			is_system         INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT NOT NULL,
			created_by        TEXT,
			last_updated_at   TEXT NOT NULL,
			last_updated_by   TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_accounts_tenant_code ON accounts (COALESCE(tenant_id, ''), code)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			entry_id         TEXT PRIMARY KEY,
			tenant_id        TEXT,
			reference        TEXT,
			description      TEXT,
			status           TEXT NOT NULL CHECK (status IN ('DRAFT', 'POSTED', 'REVERSED')),
			transaction_date TEXT NOT NULL,
			currency_code    TEXT NOT NULL,
			total_debit      TEXT NOT NULL,
			total_credit     TEXT NOT NULL,
			metadata         TEXT NOT NULL DEFAULT '{}',
			created_at       TEXT NOT NULL,
			created_by       TEXT,
			last_updated_at  TEXT NOT NULL,
			last_updated_by  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entries_tenant_date ON journal_entries (tenant_id, transaction_date, created_at)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_journal_entries_reversal_of
			ON journal_entries (json_extract(metadata, '$.reversalOf'))
			WHERE json_extract(metadata, '$.reversalOf') IS NOT NULL`,

		`CREATE TABLE IF NOT EXISTS journal_entry_lines (
			line_id     TEXT PRIMARY KEY,
			entry_id    TEXT NOT NULL REFERENCES journal_entries (entry_id) ON DELETE CASCADE,
			account_id  TEXT NOT NULL REFERENCES accounts (account_id),
			line_no     INTEGER NOT NULL,
			debit       TEXT NOT NULL CHECK (CAST(debit AS NUMERIC) >= 0),
			credit      TEXT NOT NULL CHECK (CAST(credit AS NUMERIC) >= 0),
			description TEXT,
			metadata    TEXT,
			created_at  TEXT NOT NULL,
			UNIQUE (entry_id, line_no),
			CONSTRAINT chk_journal_entry_lines_one_side
				CHECK ((CAST(debit AS NUMERIC) = 0) <> (CAST(credit AS NUMERIC) = 0))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entry_lines_account ON journal_entry_lines (account_id)`,
	}
}

// Migrate applies Migrations in order. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Migrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration %d: %w", i+1, err)
		}
	}
	return nil
}
