package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// PostingWriterSvc defines the state-changing ledger operations.
type PostingWriterSvc interface {
	// Post validates a draft and persists it atomically as a POSTED entry.
	Post(ctx context.Context, draft domain.PostingDraft, actorID string) (*domain.PostingResult, error)

	// Reverse posts the mirror image of a POSTED entry and marks the original REVERSED.
	Reverse(ctx context.Context, tenantID *string, entryID, reason, actorID string) (*domain.PostingResult, error)

	// ReconcileReversal finishes a reversal whose status flip did not complete.
	ReconcileReversal(ctx context.Context, tenantID *string, entryID, actorID string) (*domain.JournalEntry, error)
}

// PostingReaderSvc defines read access to posted entries.
type PostingReaderSvc interface {
	GetEntry(ctx context.Context, tenantID *string, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID *string, params domain.ListEntriesParams) (*domain.ListEntriesResult, error)
}

// PostingSvc combines all posting-related service interfaces
type PostingSvc interface {
	PostingWriterSvc
	PostingReaderSvc
}

// BalanceSvc computes account balances from posted lines.
type BalanceSvc interface {
	GetAccountBalance(ctx context.Context, accountCode string, tenantID *string, asOf *time.Time) (*domain.AccountBalance, error)
}
