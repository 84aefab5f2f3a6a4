package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// JournalEntry is a row of the journal_entries table. Metadata holds the raw JSON document.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	TenantID        *string         `db:"tenant_id"`
	Reference       *string         `db:"reference"`
	Description     *string         `db:"description"`
	Status          JournalStatus   `db:"status"`
	TransactionDate time.Time       `db:"transaction_date"`
	CurrencyCode    string          `db:"currency_code"`
	TotalDebit      decimal.Decimal `db:"total_debit"`
	TotalCredit     decimal.Decimal `db:"total_credit"`
	Metadata        []byte          `db:"metadata"`
	AuditFields
}

// JournalEntryLine is a row of the journal_entry_lines table.
// AccountCode is not a column; readers fill it from a join on accounts.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"code"`
	LineNo      int             `db:"line_no"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description *string         `db:"description"`
	Metadata    []byte          `db:"metadata"`
	CreatedAt   time.Time       `db:"created_at"`
}
