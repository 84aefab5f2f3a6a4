package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

// PostingConfig holds the tunables of the posting engine.
type PostingConfig struct {
	DefaultCurrency string
	Tolerance       decimal.Decimal
	AmountScale     int32
	ReversalPrefix  string
}

// DefaultPostingConfig returns the engine defaults.
func DefaultPostingConfig() PostingConfig {
	return PostingConfig{
		DefaultCurrency: "USD",
		Tolerance:       accounting.DefaultTolerance,
		AmountScale:     2,
		ReversalPrefix:  "REV-",
	}
}

// postingService validates drafts and persists journal entries.
type postingService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	chart       portssvc.ChartReaderSvc
	cfg         PostingConfig
	recorder    metrics.Recorder
	now         func() time.Time
	newID       func() string
}

// PostingOption is a functional option for configuring the posting service
type PostingOption func(*postingService)

// WithClock overrides the time source used for audit fields and default dates.
func WithClock(now func() time.Time) PostingOption {
	return func(s *postingService) {
		s.now = now
	}
}

// WithIDGenerator overrides the entry and line id generator.
func WithIDGenerator(newID func() string) PostingOption {
	return func(s *postingService) {
		s.newID = newID
	}
}

// NewPostingService creates a new posting engine.
func NewPostingService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	chart portssvc.ChartReaderSvc,
	cfg PostingConfig,
	recorder metrics.Recorder,
	logger *slog.Logger,
	options ...PostingOption,
) portssvc.PostingSvc {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	svc := &postingService{
		BaseService: newBaseService(logger),
		journalRepo: journalRepo,
		chart:       chart,
		cfg:         cfg,
		recorder:    recorder,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure postingService implements the PostingSvc interface
var _ portssvc.PostingSvc = (*postingService)(nil)

func (s *postingService) Post(ctx context.Context, draft domain.PostingDraft, actorID string) (*domain.PostingResult, error) {
	result, err := s.post(ctx, draft, actorID, false)
	s.recorder.PostingCompleted(outcomeOf(err))
	return result, err
}

// post runs the full validation pipeline and commits the entry with its lines in one transaction.
// Reversal drafts skip the inactive-account check so that an entry can always be undone.
func (s *postingService) post(ctx context.Context, draft domain.PostingDraft, actorID string, isReversal bool) (*domain.PostingResult, error) {
	logger := s.GetLogger(ctx)

	currencyCode, err := s.validateDraft(draft)
	if err != nil {
		logger.Warn("Posting draft rejected", tenantAttr(draft.TenantID), slog.String("error", err.Error()))
		return nil, err
	}

	accounts, err := s.chart.ResolveAccounts(ctx, draft.TenantID, draft.AccountCodes())
	if err != nil {
		return nil, err
	}
	if err := checkAccounts(draft, accounts, !isReversal); err != nil {
		logger.Warn("Posting draft rejected", tenantAttr(draft.TenantID), slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now()
	txDate := domain.DateOnly(now)
	if draft.TransactionDate != nil {
		txDate = domain.DateOnly(*draft.TransactionDate)
	}
	totalDebit, totalCredit := draft.Totals()

	entry := domain.JournalEntry{
		EntryID:         s.newID(),
		TenantID:        draft.TenantID,
		Reference:       draft.Reference,
		Description:     draft.Description,
		Status:          domain.Posted,
		TransactionDate: txDate,
		CurrencyCode:    currencyCode,
		TotalDebit:      totalDebit,
		TotalCredit:     totalCredit,
		Metadata:        draft.Metadata,
		AuditFields:     domain.NewAuditFields(actorID, now),
	}

	lines := make([]domain.JournalEntryLine, len(draft.Lines))
	for i, l := range draft.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:      s.newID(),
			EntryID:     entry.EntryID,
			AccountID:   accounts[l.AccountCode].AccountID,
			AccountCode: l.AccountCode,
			LineNo:      i + 1,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Metadata:    l.Metadata,
			CreatedAt:   now,
		}
	}

	err = s.journalRepo.RunInTransaction(ctx, func(txCtx context.Context) error {
		return s.journalRepo.CreateEntry(txCtx, entry, lines)
	})
	if err != nil {
		if isReversal && errors.Is(err, apperrors.ErrDuplicate) && draft.Metadata.ReversalOf != nil {
			return nil, apperrors.NewValidationError(apperrors.CodeReversalExists,
				fmt.Sprintf("entry %s has already been reversed", *draft.Metadata.ReversalOf)).
				WithDetail("entryId", *draft.Metadata.ReversalOf)
		}
		s.LogError(ctx, err, "Failed to persist journal entry", tenantAttr(draft.TenantID), slog.String("entry_id", entry.EntryID))
		return nil, apperrors.NewInternalError("failed to persist journal entry", err)
	}

	logger.Info("Journal entry posted",
		tenantAttr(draft.TenantID),
		slog.String("entry_id", entry.EntryID),
		slog.Int("line_count", len(lines)),
		slog.String("total", totalDebit.String()),
		slog.String("currency", currencyCode))

	return &domain.PostingResult{
		EntryID:         entry.EntryID,
		TenantID:        entry.TenantID,
		Reference:       entry.Reference,
		Status:          entry.Status,
		TransactionDate: entry.TransactionDate,
		CurrencyCode:    entry.CurrencyCode,
		TotalDebit:      entry.TotalDebit,
		TotalCredit:     entry.TotalCredit,
		Lines:           draft.Lines,
	}, nil
}

// validateDraft checks everything that does not need storage and returns the effective currency.
func (s *postingService) validateDraft(draft domain.PostingDraft) (string, error) {
	if len(draft.Lines) < 2 {
		return "", apperrors.NewValidationError(apperrors.CodeInsufficientLines,
			"a journal entry needs at least two lines").
			WithDetail("lineCount", len(draft.Lines))
	}

	for i, l := range draft.Lines {
		if strings.TrimSpace(l.AccountCode) == "" {
			return "", apperrors.NewValidationError(apperrors.CodeInvalidLine,
				fmt.Sprintf("line %d: account code is required", i+1)).
				WithDetail("lineNo", i+1)
		}
		if msg := accounting.LineError(l.Debit, l.Credit, s.cfg.AmountScale); msg != "" {
			return "", apperrors.NewValidationError(apperrors.CodeInvalidLine,
				fmt.Sprintf("line %d: %s", i+1, msg)).
				WithDetail("lineNo", i+1)
		}
	}

	debit, credit := draft.Totals()
	if !accounting.IsBalanced(debit, credit, s.cfg.Tolerance) {
		return "", apperrors.NewValidationError(apperrors.CodeUnbalancedEntry,
			fmt.Sprintf("debits (%s) do not equal credits (%s)", debit.String(), credit.String())).
			WithDetail("totalDebit", debit.String()).
			WithDetail("totalCredit", credit.String())
	}

	code := strings.ToUpper(strings.TrimSpace(draft.CurrencyCode))
	if code == "" {
		code = s.cfg.DefaultCurrency
	}
	if _, err := currency.ParseISO(code); err != nil {
		return "", apperrors.NewValidationError(apperrors.CodeInvalidCurrency,
			fmt.Sprintf("unknown currency code %q", code)).
			WithDetail("currencyCode", code)
	}
	return code, nil
}

// checkAccounts reports every unknown code, then every inactive account.
func checkAccounts(draft domain.PostingDraft, accounts map[string]domain.Account, requireActive bool) error {
	var missing, inactive []string
	for _, code := range draft.AccountCodes() {
		acc, ok := accounts[code]
		if !ok {
			missing = append(missing, code)
			continue
		}
		if requireActive && !acc.IsActive {
			inactive = append(inactive, code)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return apperrors.NewValidationError(apperrors.CodeUnknownAccounts,
			fmt.Sprintf("unknown account codes: %s", strings.Join(missing, ", "))).
			WithDetail("missingAccountCodes", missing)
	}
	if len(inactive) > 0 {
		sort.Strings(inactive)
		return apperrors.NewValidationError(apperrors.CodeInactiveAccounts,
			fmt.Sprintf("inactive account codes: %s", strings.Join(inactive, ", "))).
			WithDetail("inactiveAccountCodes", inactive)
	}
	return nil
}

// Reverse posts the mirror image of a POSTED entry, then marks the original REVERSED.
// The two steps commit separately; if the second one fails the reversal still stands,
// the inconsistency is logged and counted, and ReconcileReversal can finish the flip.
func (s *postingService) Reverse(ctx context.Context, tenantID *string, entryID, reason, actorID string) (*domain.PostingResult, error) {
	result, err := s.reverse(ctx, tenantID, entryID, reason, actorID)
	s.recorder.ReversalCompleted(outcomeOf(err))
	return result, err
}

func (s *postingService) reverse(ctx context.Context, tenantID *string, entryID, reason, actorID string) (*domain.PostingResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID), tenantAttr(tenantID))

	original, err := s.loadEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	if !original.Status.CanTransitionTo(domain.Reversed) {
		logger.Warn("Attempted to reverse an entry that is not posted", slog.String("status", string(original.Status)))
		return nil, apperrors.NewValidationError(apperrors.CodeEntryNotPosted,
			fmt.Sprintf("entry %s is %s; only POSTED entries can be reversed", entryID, original.Status)).
			WithDetail("status", string(original.Status))
	}

	existing, err := s.journalRepo.FindReversalOf(ctx, entryID)
	switch {
	case err == nil:
		logger.Warn("Entry already has a reversing entry; completing status flip",
			slog.String("reversal_entry_id", existing.EntryID))
		s.flipToReversed(ctx, original, existing.EntryID, reason, actorID)
		return nil, apperrors.NewValidationError(apperrors.CodeReversalExists,
			fmt.Sprintf("entry %s has already been reversed by %s", entryID, existing.EntryID)).
			WithDetail("entryId", entryID).
			WithDetail("reversalEntryId", existing.EntryID)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up existing reversal", slog.String("entry_id", entryID))
		return nil, apperrors.NewInternalError("failed to look up existing reversal", err)
	}

	result, err := s.post(ctx, s.mirrorDraft(*original, reason), actorID, true)
	if err != nil {
		return nil, err
	}

	s.flipToReversed(ctx, original, result.EntryID, reason, actorID)
	logger.Info("Journal entry reversed", slog.String("reversal_entry_id", result.EntryID))
	return result, nil
}

// mirrorDraft builds the reversing draft: same tenant, currency and date, every line swapped.
func (s *postingService) mirrorDraft(original domain.JournalEntry, reason string) domain.PostingDraft {
	ref := original.EntryID
	if original.Reference != nil && *original.Reference != "" {
		ref = *original.Reference
	}
	reference := s.cfg.ReversalPrefix + ref

	subject := original.EntryID
	if original.Description != nil && *original.Description != "" {
		subject = *original.Description
	}
	description := "Reversal of " + subject
	if reason != "" {
		description += ": " + reason
	}

	lines := make([]domain.DraftLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.DraftLine{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Metadata:    l.Metadata,
		}.Mirror()
	}

	txDate := original.TransactionDate
	originalID := original.EntryID
	return domain.PostingDraft{
		TenantID:        original.TenantID,
		Reference:       &reference,
		Description:     &description,
		TransactionDate: &txDate,
		CurrencyCode:    original.CurrencyCode,
		Lines:           lines,
		Metadata:        domain.EntryMetadata{ReversalOf: &originalID},
	}
}

// flipToReversed moves the original to REVERSED and records who reversed it.
// Failure is not returned: the reversing entry is already committed.
func (s *postingService) flipToReversed(ctx context.Context, original *domain.JournalEntry, reversalEntryID, reason, actorID string) bool {
	if !original.Status.CanTransitionTo(domain.Reversed) {
		s.GetLogger(ctx).Warn("Refusing status change",
			slog.String("entry_id", original.EntryID),
			slog.String("from", string(original.Status)),
			slog.String("to", string(domain.Reversed)))
		return false
	}
	now := s.now()
	meta := original.Metadata
	meta.Reversal = &domain.ReversalInfo{
		ReversedByEntryID: reversalEntryID,
		Reason:            reason,
		ReversedAt:        now,
	}

	err := s.journalRepo.SaveEntryStatus(ctx, original.EntryID, original.Status, domain.Reversed, meta, actorID, now)
	if err != nil {
		s.LogError(ctx, err, "Reversal posted but original entry could not be marked REVERSED",
			slog.String("entry_id", original.EntryID),
			slog.String("reversal_entry_id", reversalEntryID))
		s.recorder.ConsistencyWarning()
		return false
	}

	original.Status = domain.Reversed
	original.Metadata = meta
	original.LastUpdatedAt = now
	original.LastUpdatedBy = actorID
	return true
}

// ReconcileReversal completes a reversal whose status flip was lost. It is idempotent.
func (s *postingService) ReconcileReversal(ctx context.Context, tenantID *string, entryID, actorID string) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID), tenantAttr(tenantID))

	entry, err := s.loadEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.Reversed {
		logger.Debug("Entry already reversed; nothing to reconcile")
		return entry, nil
	}

	existing, err := s.journalRepo.FindReversalOf(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(apperrors.CodeNoReversalFound,
				fmt.Sprintf("entry %s has no reversing entry", entryID)).
				WithDetail("entryId", entryID)
		}
		s.LogError(ctx, err, "Failed to look up existing reversal", slog.String("entry_id", entryID))
		return nil, apperrors.NewInternalError("failed to look up existing reversal", err)
	}

	if !s.flipToReversed(ctx, entry, existing.EntryID, "", actorID) {
		// Another caller may have completed the flip in the meantime.
		reloaded, err := s.loadEntry(ctx, tenantID, entryID)
		if err == nil && reloaded.Status == domain.Reversed {
			return reloaded, nil
		}
		return nil, apperrors.NewInternalError("failed to mark entry as reversed", err)
	}

	logger.Info("Reversal reconciled", slog.String("reversal_entry_id", existing.EntryID))
	return entry, nil
}

func (s *postingService) GetEntry(ctx context.Context, tenantID *string, entryID string) (*domain.JournalEntry, error) {
	return s.loadEntry(ctx, tenantID, entryID)
}

func (s *postingService) ListEntries(ctx context.Context, tenantID *string, params domain.ListEntriesParams) (*domain.ListEntriesResult, error) {
	limit := pagination.ClampLimit(params.Limit)
	entries, next, err := s.journalRepo.ListEntries(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, apperrors.NewAppError(apperrors.ErrValidation, apperrors.CodeInvalidRequest, "invalid pagination token", err)
		}
		s.LogError(ctx, err, "Failed to list journal entries", tenantAttr(tenantID))
		return nil, apperrors.NewInternalError("failed to list journal entries", err)
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return &domain.ListEntriesResult{Entries: entries, NextToken: next}, nil
}

// loadEntry fetches an entry with its lines. An entry owned by another tenant is reported as not found.
func (s *postingService) loadEntry(ctx context.Context, tenantID *string, entryID string) (*domain.JournalEntry, error) {
	notFound := apperrors.NewNotFoundError(apperrors.CodeEntryNotFound,
		fmt.Sprintf("journal entry %s not found", entryID)).
		WithDetail("entryId", entryID)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, notFound
		}
		s.LogError(ctx, err, "Failed to load journal entry", slog.String("entry_id", entryID))
		return nil, apperrors.NewInternalError("failed to load journal entry", err)
	}
	if !domain.SameTenant(entry.TenantID, tenantID) {
		s.GetLogger(ctx).Warn("Journal entry requested from a different tenant",
			slog.String("entry_id", entryID),
			slog.String("entry_tenant", domain.TenantLabel(entry.TenantID)),
			slog.String("requested_tenant", domain.TenantLabel(tenantID)))
		return nil, notFound
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal entry lines", slog.String("entry_id", entryID))
		return nil, apperrors.NewInternalError("failed to load journal entry lines", err)
	}
	entry.Lines = lines
	return entry, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
