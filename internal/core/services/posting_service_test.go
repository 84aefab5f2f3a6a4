package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockChart       *MockChartService
	recorder        *recorderSpy
	service         portssvc.PostingSvc
	tenantID        *string
	userID          string
	now             time.Time
	cashAccount     domain.Account
	salesAccount    domain.Account
	closedAccount   domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockChart = new(MockChartService)
	suite.recorder = newRecorderSpy()
	suite.tenantID = stringPtr("tenant-1")
	suite.userID = "user-1"
	suite.now = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

	seq := 0
	suite.service = services.NewPostingService(
		suite.mockJournalRepo,
		suite.mockChart,
		services.DefaultPostingConfig(),
		suite.recorder,
		nil,
		services.WithClock(func() time.Time { return suite.now }),
		services.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)

	suite.cashAccount = domain.Account{AccountID: "acc-cash", TenantID: suite.tenantID, Code: "1000", AccountType: domain.Asset, IsActive: true}
	suite.salesAccount = domain.Account{AccountID: "acc-sales", TenantID: suite.tenantID, Code: "4000", AccountType: domain.Revenue, IsActive: true}
	suite.closedAccount = domain.Account{AccountID: "acc-closed", TenantID: suite.tenantID, Code: "1999", AccountType: domain.Asset, IsActive: false}
}

func (suite *PostingServiceTestSuite) saleDraft(amount string) domain.PostingDraft {
	return domain.PostingDraft{
		TenantID:    suite.tenantID,
		Reference:   stringPtr("INV-1"),
		Description: stringPtr("Cash sale"),
		Lines: []domain.DraftLine{
			{AccountCode: "1000", Debit: dec(amount), Credit: dec("0")},
			{AccountCode: "4000", Debit: dec("0"), Credit: dec(amount)},
		},
	}
}

func (suite *PostingServiceTestSuite) accounts(accs ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accs))
	for _, a := range accs {
		m[a.Code] = a
	}
	return m
}

func (suite *PostingServiceTestSuite) requireAppError(err error, kind error, code string) *apperrors.AppError {
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, kind)
	appErr, ok := apperrors.As(err)
	suite.Require().True(ok)
	suite.Equal(code, appErr.Code)
	return appErr
}

// --- Post ---

func (suite *PostingServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	draft := suite.saleDraft("200.00")

	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, []string{"1000", "4000"}).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return e.EntryID == "id-1" &&
				e.Status == domain.Posted &&
				e.CurrencyCode == "USD" &&
				e.TotalDebit.Equal(dec("200")) &&
				e.TotalCredit.Equal(dec("200")) &&
				e.TransactionDate.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) &&
				e.CreatedBy == suite.userID
		}),
		mock.MatchedBy(func(lines []domain.JournalEntryLine) bool {
			return len(lines) == 2 &&
				lines[0].LineNo == 1 && lines[0].AccountID == "acc-cash" && lines[0].Debit.Equal(dec("200")) &&
				lines[1].LineNo == 2 && lines[1].AccountID == "acc-sales" && lines[1].Credit.Equal(dec("200")) &&
				lines[0].EntryID == "id-1" && lines[1].EntryID == "id-1"
		}),
	).Return(nil).Once()

	result, err := suite.service.Post(ctx, draft, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal("id-1", result.EntryID)
	suite.Equal(domain.Posted, result.Status)
	suite.Equal("INV-1", *result.Reference)
	suite.True(result.TotalDebit.Equal(result.TotalCredit))
	suite.Equal(draft.Lines, result.Lines)
	suite.Equal(1, suite.recorder.postings[metrics.OutcomeSuccess])

	suite.mockChart.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_UsesDraftDateAndCurrency() {
	ctx := context.Background()
	draft := suite.saleDraft("10")
	date := time.Date(2025, 1, 5, 23, 59, 0, 0, time.UTC)
	draft.TransactionDate = &date
	draft.CurrencyCode = "eur"

	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return e.CurrencyCode == "EUR" && e.TransactionDate.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
		}),
		mock.Anything,
	).Return(nil).Once()

	result, err := suite.service.Post(ctx, draft, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("EUR", result.CurrencyCode)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_LessThanTwoLines() {
	ctx := context.Background()
	draft := domain.PostingDraft{
		TenantID: suite.tenantID,
		Lines:    []domain.DraftLine{{AccountCode: "1000", Debit: dec("10"), Credit: dec("0")}},
	}

	_, err := suite.service.Post(ctx, draft, suite.userID)

	suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeInsufficientLines)
	suite.Equal(1, suite.recorder.postings[metrics.OutcomeRejected])
	suite.mockChart.AssertNotCalled(suite.T(), "ResolveAccounts", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_InvalidLines() {
	tests := []struct {
		name   string
		debit  string
		credit string
	}{
		{"negative debit", "-10", "0"},
		{"both sides", "10", "10"},
		{"both zero", "0", "0"},
		{"too many decimals", "10.005", "0"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			draft := domain.PostingDraft{
				TenantID: suite.tenantID,
				Lines: []domain.DraftLine{
					{AccountCode: "1000", Debit: dec(tt.debit), Credit: dec(tt.credit)},
					{AccountCode: "4000", Debit: dec("0"), Credit: dec("10")},
				},
			}
			_, err := suite.service.Post(context.Background(), draft, suite.userID)
			appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeInvalidLine)
			suite.Equal(1, appErr.Details["lineNo"])
		})
	}
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_Unbalanced() {
	ctx := context.Background()
	draft := domain.PostingDraft{
		TenantID: suite.tenantID,
		Lines: []domain.DraftLine{
			{AccountCode: "1000", Debit: dec("100"), Credit: dec("0")},
			{AccountCode: "4000", Debit: dec("0"), Credit: dec("90")},
		},
	}

	_, err := suite.service.Post(ctx, draft, suite.userID)

	appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeUnbalancedEntry)
	suite.Equal("100", appErr.Details["totalDebit"])
	suite.Equal("90", appErr.Details["totalCredit"])
	suite.mockChart.AssertNotCalled(suite.T(), "ResolveAccounts", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "RunInTransaction", mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_WithinConfiguredTolerance() {
	cfg := services.DefaultPostingConfig()
	cfg.Tolerance = dec("0.01")
	svc := services.NewPostingService(suite.mockJournalRepo, suite.mockChart, cfg, nil, nil)
	draft := domain.PostingDraft{
		TenantID: suite.tenantID,
		Lines: []domain.DraftLine{
			{AccountCode: "1000", Debit: dec("100.01"), Credit: dec("0")},
			{AccountCode: "4000", Debit: dec("0"), Credit: dec("100.00")},
		},
	}

	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Post(context.Background(), draft, suite.userID)
	suite.Require().NoError(err)
}

func (suite *PostingServiceTestSuite) TestPost_InvalidCurrency() {
	draft := suite.saleDraft("10")
	draft.CurrencyCode = "ZZZ"

	_, err := suite.service.Post(context.Background(), draft, suite.userID)

	suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeInvalidCurrency)
}

func (suite *PostingServiceTestSuite) TestPost_UnknownAccountsEnumerated() {
	ctx := context.Background()
	draft := domain.PostingDraft{
		TenantID: suite.tenantID,
		Lines: []domain.DraftLine{
			{AccountCode: "9999", Debit: dec("50"), Credit: dec("0")},
			{AccountCode: "1000", Debit: dec("50"), Credit: dec("0")},
			{AccountCode: "9998", Debit: dec("0"), Credit: dec("100")},
		},
	}

	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, []string{"9999", "1000", "9998"}).
		Return(suite.accounts(suite.cashAccount), nil).Once()

	_, err := suite.service.Post(ctx, draft, suite.userID)

	appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeUnknownAccounts)
	suite.Equal([]string{"9998", "9999"}, appErr.Details["missingAccountCodes"])
	suite.Contains(err.Error(), "9999")
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "RunInTransaction", mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_InactiveAccount() {
	ctx := context.Background()
	draft := domain.PostingDraft{
		TenantID: suite.tenantID,
		Lines: []domain.DraftLine{
			{AccountCode: "1999", Debit: dec("50"), Credit: dec("0")},
			{AccountCode: "4000", Debit: dec("0"), Credit: dec("50")},
		},
	}

	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.closedAccount, suite.salesAccount), nil).Once()

	_, err := suite.service.Post(ctx, draft, suite.userID)

	appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeInactiveAccounts)
	suite.Equal([]string{"1999"}, appErr.Details["inactiveAccountCodes"])
}

func (suite *PostingServiceTestSuite) TestPost_StorageFailure() {
	ctx := context.Background()
	repoErr := errors.New("disk full")

	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).Return(repoErr).Once()

	_, err := suite.service.Post(ctx, suite.saleDraft("10"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInternal)
	suite.ErrorIs(err, repoErr)
	suite.Equal(1, suite.recorder.postings[metrics.OutcomeError])
}

// --- Reverse ---

func (suite *PostingServiceTestSuite) originalEntry(status domain.JournalStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:         "orig",
		TenantID:        suite.tenantID,
		Reference:       stringPtr("INV-1"),
		Description:     stringPtr("Cash sale"),
		Status:          status,
		TransactionDate: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		CurrencyCode:    "USD",
		TotalDebit:      dec("200"),
		TotalCredit:     dec("200"),
	}
}

func (suite *PostingServiceTestSuite) originalLines() []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{LineID: "l1", EntryID: "orig", AccountID: "acc-cash", AccountCode: "1000", LineNo: 1, Debit: dec("200"), Credit: dec("0"), Metadata: map[string]any{"k": "v"}},
		{LineID: "l2", EntryID: "orig", AccountID: "acc-sales", AccountCode: "4000", LineNo: 2, Debit: dec("0"), Credit: dec("200")},
	}
}

func (suite *PostingServiceTestSuite) TestReverse_Success() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(nil, apperrors.ErrNotFound).Once()
	// Reversals may touch accounts deactivated since the original was posted.
	closedSales := suite.salesAccount
	closedSales.IsActive = false
	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, []string{"1000", "4000"}).
		Return(suite.accounts(suite.cashAccount, closedSales), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return e.EntryID == "id-1" &&
				*e.Reference == "REV-INV-1" &&
				*e.Description == "Reversal of Cash sale: customer refund" &&
				e.Metadata.ReversalOf != nil && *e.Metadata.ReversalOf == "orig" &&
				e.TransactionDate.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)) &&
				e.CurrencyCode == "USD"
		}),
		mock.MatchedBy(func(lines []domain.JournalEntryLine) bool {
			return len(lines) == 2 &&
				lines[0].AccountCode == "1000" && lines[0].Credit.Equal(dec("200")) && lines[0].Debit.IsZero() &&
				lines[1].AccountCode == "4000" && lines[1].Debit.Equal(dec("200")) && lines[1].Credit.IsZero() &&
				lines[0].Metadata["k"] == "v"
		}),
	).Return(nil).Once()
	suite.mockJournalRepo.On("SaveEntryStatus", mock.Anything, "orig", domain.Posted, domain.Reversed,
		mock.MatchedBy(func(m domain.EntryMetadata) bool {
			return m.Reversal != nil &&
				m.Reversal.ReversedByEntryID == "id-1" &&
				m.Reversal.Reason == "customer refund" &&
				m.Reversal.ReversedAt.Equal(suite.now)
		}),
		suite.userID, suite.now,
	).Return(nil).Once()

	result, err := suite.service.Reverse(ctx, suite.tenantID, "orig", "customer refund", suite.userID)

	suite.Require().NoError(err)
	suite.Equal("id-1", result.EntryID)
	suite.Equal("REV-INV-1", *result.Reference)
	suite.Equal(domain.Posted, result.Status)
	suite.Equal(1, suite.recorder.reversals[metrics.OutcomeSuccess])
	suite.Equal(0, suite.recorder.consistencyWarnings)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockChart.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverse_NoReferenceOrDescription() {
	original := suite.originalEntry(domain.Posted)
	original.Reference = nil
	original.Description = nil

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(original, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return *e.Reference == "REV-orig" && *e.Description == "Reversal of orig"
		}),
		mock.Anything,
	).Return(nil).Once()
	suite.mockJournalRepo.On("SaveEntryStatus", mock.Anything, "orig", domain.Posted, domain.Reversed, mock.Anything, suite.userID, suite.now).Return(nil).Once()

	result, err := suite.service.Reverse(context.Background(), suite.tenantID, "orig", "", suite.userID)

	suite.Require().NoError(err)
	suite.Equal("REV-orig", *result.Reference)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverse_NotFound() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Reverse(context.Background(), suite.tenantID, "missing", "", suite.userID)

	suite.requireAppError(err, apperrors.ErrNotFound, apperrors.CodeEntryNotFound)
	suite.Equal(1, suite.recorder.reversals[metrics.OutcomeRejected])
}

func (suite *PostingServiceTestSuite) TestReverse_OtherTenantIsNotFound() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()

	_, err := suite.service.Reverse(context.Background(), stringPtr("tenant-2"), "orig", "", suite.userID)

	suite.requireAppError(err, apperrors.ErrNotFound, apperrors.CodeEntryNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverse_AlreadyReversed() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Reversed), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()

	_, err := suite.service.Reverse(context.Background(), suite.tenantID, "orig", "", suite.userID)

	appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeEntryNotPosted)
	suite.Equal("REVERSED", appErr.Details["status"])
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverse_StatusWithoutTransitionToReversed() {
	for _, status := range []domain.JournalStatus{domain.Draft, domain.Reversed} {
		suite.Run(string(status), func() {
			suite.SetupTest()
			suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(status), nil).Once()
			suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()

			_, err := suite.service.Reverse(context.Background(), suite.tenantID, "orig", "", suite.userID)

			appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeEntryNotPosted)
			suite.Equal(string(status), appErr.Details["status"])
			suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindReversalOf", mock.Anything, mock.Anything)
			suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (suite *PostingServiceTestSuite) TestReverse_ExistingReversalRepairsStatus() {
	existing := &domain.JournalEntry{EntryID: "rev-1", TenantID: suite.tenantID, Status: domain.Posted}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(existing, nil).Once()
	suite.mockJournalRepo.On("SaveEntryStatus", mock.Anything, "orig", domain.Posted, domain.Reversed,
		mock.MatchedBy(func(m domain.EntryMetadata) bool {
			return m.Reversal != nil && m.Reversal.ReversedByEntryID == "rev-1"
		}),
		suite.userID, suite.now,
	).Return(nil).Once()

	_, err := suite.service.Reverse(context.Background(), suite.tenantID, "orig", "", suite.userID)

	appErr := suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeReversalExists)
	suite.Equal("rev-1", appErr.Details["reversalEntryId"])
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverse_ConcurrentDuplicateIsRejected() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("insert entry: %w", apperrors.ErrDuplicate)).Once()

	_, err := suite.service.Reverse(context.Background(), suite.tenantID, "orig", "", suite.userID)

	suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeReversalExists)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntryStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverse_StatusFlipFailureIsConsistencyWarning() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockChart.On("ResolveAccounts", mock.Anything, suite.tenantID, mock.Anything).
		Return(suite.accounts(suite.cashAccount, suite.salesAccount), nil).Once()
	suite.mockJournalRepo.On("RunInTransaction", mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("CreateEntry", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockJournalRepo.On("SaveEntryStatus", mock.Anything, "orig", domain.Posted, domain.Reversed, mock.Anything, suite.userID, suite.now).
		Return(errors.New("connection lost")).Once()

	result, err := suite.service.Reverse(context.Background(), suite.tenantID, "orig", "", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal("id-1", result.EntryID)
	suite.Equal(1, suite.recorder.consistencyWarnings)
	suite.Equal(1, suite.recorder.reversals[metrics.OutcomeSuccess])
}

// --- ReconcileReversal ---

func (suite *PostingServiceTestSuite) TestReconcileReversal_FlipsPostedEntry() {
	existing := &domain.JournalEntry{EntryID: "rev-1", TenantID: suite.tenantID, Status: domain.Posted}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(existing, nil).Once()
	suite.mockJournalRepo.On("SaveEntryStatus", mock.Anything, "orig", domain.Posted, domain.Reversed, mock.Anything, suite.userID, suite.now).Return(nil).Once()

	entry, err := suite.service.ReconcileReversal(context.Background(), suite.tenantID, "orig", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, entry.Status)
	suite.Require().NotNil(entry.Metadata.Reversal)
	suite.Equal("rev-1", entry.Metadata.Reversal.ReversedByEntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReconcileReversal_AlreadyReversedIsNoop() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Reversed), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()

	entry, err := suite.service.ReconcileReversal(context.Background(), suite.tenantID, "orig", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Reversed, entry.Status)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindReversalOf", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReconcileReversal_NoReversal() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()
	suite.mockJournalRepo.On("FindReversalOf", mock.Anything, "orig").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ReconcileReversal(context.Background(), suite.tenantID, "orig", suite.userID)

	suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeNoReversalFound)
}

// --- Reads ---

func (suite *PostingServiceTestSuite) TestGetEntry_LoadsLines() {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "orig").Return(suite.originalEntry(domain.Posted), nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "orig").Return(suite.originalLines(), nil).Once()

	entry, err := suite.service.GetEntry(context.Background(), suite.tenantID, "orig")

	suite.Require().NoError(err)
	suite.Len(entry.Lines, 2)
}

func (suite *PostingServiceTestSuite) TestListEntries_ClampsLimit() {
	entries := []domain.JournalEntry{*suite.originalEntry(domain.Posted)}
	suite.mockJournalRepo.On("ListEntries", mock.Anything, suite.tenantID, 20, (*string)(nil)).Return(entries, "next-token", nil).Once()

	result, err := suite.service.ListEntries(context.Background(), suite.tenantID, domain.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(result.Entries, 1)
	suite.Require().NotNil(result.NextToken)
	suite.Equal("next-token", *result.NextToken)
}

func (suite *PostingServiceTestSuite) TestListEntries_BadToken() {
	token := "garbage"
	suite.mockJournalRepo.On("ListEntries", mock.Anything, suite.tenantID, 5, &token).
		Return(nil, nil, fmt.Errorf("%w: bad token", apperrors.ErrValidation)).Once()

	_, err := suite.service.ListEntries(context.Background(), suite.tenantID, domain.ListEntriesParams{Limit: 5, NextToken: &token})

	suite.requireAppError(err, apperrors.ErrValidation, apperrors.CodeInvalidRequest)
}

// --- Run Test Suite ---
func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
