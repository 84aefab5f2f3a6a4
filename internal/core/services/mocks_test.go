package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

// RunInTransaction records the call and runs fn with the same context unless an error is configured.
func (m *MockJournalRepository) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) FindReversalOf(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID *string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveEntryStatus(ctx context.Context, entryID string, from, to domain.JournalStatus, metadata domain.EntryMetadata, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, from, to, metadata, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SumLinesForAccount(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryWithTx = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccountParent(ctx context.Context, accountID, parentAccountID string, level int, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, parentAccountID, level, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock ChartService (as used by the posting and balance services) ---
type MockChartService struct {
	mock.Mock
}

var _ portssvc.ChartReaderSvc = (*MockChartService)(nil)

func (m *MockChartService) ResolveAccounts(ctx context.Context, tenantID *string, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockChartService) FindByCode(ctx context.Context, tenantID *string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- recorderSpy counts metric events ---
type recorderSpy struct {
	mu                  sync.Mutex
	postings            map[string]int
	reversals           map[string]int
	consistencyWarnings int
	balanceQueries      int
}

var _ metrics.Recorder = (*recorderSpy)(nil)

func newRecorderSpy() *recorderSpy {
	return &recorderSpy{postings: map[string]int{}, reversals: map[string]int{}}
}

func (r *recorderSpy) PostingCompleted(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.postings[outcome]++
}

func (r *recorderSpy) ReversalCompleted(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reversals[outcome]++
}

func (r *recorderSpy) ConsistencyWarning() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consistencyWarnings++
}

func (r *recorderSpy) BalanceQueried() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balanceQueries++
}

func stringPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
