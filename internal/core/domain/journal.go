package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT" // in-memory only, never persisted
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// CanTransitionTo encodes DRAFT -> POSTED -> REVERSED. REVERSED is terminal.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	switch s {
	case Draft:
		return next == Posted
	case Posted:
		return next == Reversed
	}
	return false
}

// ReversalInfo is recorded on an entry once it has been reversed.
type ReversalInfo struct {
	ReversedByEntryID string    `json:"reversedByEntryId"`
	Reason            string    `json:"reason,omitempty"`
	ReversedAt        time.Time `json:"reversedAt"`
}

// EntryMetadata is the typed metadata document stored alongside an entry.
type EntryMetadata struct {
	Reversal   *ReversalInfo `json:"reversal,omitempty"`
	ReversalOf *string       `json:"reversalOf,omitempty"`
}

// IsZero reports whether there is nothing worth persisting.
func (m EntryMetadata) IsZero() bool {
	return m.Reversal == nil && m.ReversalOf == nil
}

// JournalEntry is a balanced, immutable set of lines.
type JournalEntry struct {
	EntryID         string             `json:"entryID"`
	TenantID        *string            `json:"tenantID,omitempty"`
	Reference       *string            `json:"reference,omitempty"`
	Description     *string            `json:"description,omitempty"`
	Status          JournalStatus      `json:"status"`
	TransactionDate time.Time          `json:"transactionDate"`
	CurrencyCode    string             `json:"currencyCode"`
	TotalDebit      decimal.Decimal    `json:"totalDebit"`
	TotalCredit     decimal.Decimal    `json:"totalCredit"`
	Metadata        EntryMetadata      `json:"metadata"`
	Lines           []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is one debit or credit against a single account.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"` // denormalised from the account on read
	LineNo      int             `json:"lineNo"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description *string         `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
