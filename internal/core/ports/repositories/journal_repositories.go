package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindEntryByID retrieves an entry header. Lines are not loaded.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of an entry ordered by line number, with account codes filled in.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// FindReversalOf returns the entry whose metadata.reversalOf equals entryID,
	// or apperrors.ErrNotFound when the entry has never been reversed.
	FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entry headers for a tenant, newest transaction date first.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, tenantID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// CreateEntry persists the entry header and every line. Callers wrap it in RunInTransaction.
	CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// SaveEntryStatus moves an entry from one status to another and replaces its metadata.
	// It returns apperrors.ErrConflict when the entry is no longer in status from.
	SaveEntryStatus(ctx context.Context, entryID string, from, to domain.JournalStatus, metadata domain.EntryMetadata, updatedBy string, updatedAt time.Time) error
}

// LineAggregator sums posted lines for balance queries.
type LineAggregator interface {
	// SumLinesForAccount totals debit and credit of lines on POSTED or REVERSED entries.
	// A non-nil asOf keeps only entries whose transaction date is on or before that day.
	SumLinesForAccount(ctx context.Context, accountID string, asOf *time.Time) (debit, credit decimal.Decimal, err error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LineAggregator
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
