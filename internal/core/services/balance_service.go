package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
)

// balanceService aggregates posted lines into account balances.
type balanceService struct {
	BaseService
	lines    portsrepo.LineAggregator
	chart    portssvc.ChartReaderSvc
	recorder metrics.Recorder
}

// NewBalanceService creates a new balance aggregator.
func NewBalanceService(lines portsrepo.LineAggregator, chart portssvc.ChartReaderSvc, recorder metrics.Recorder, logger *slog.Logger) portssvc.BalanceSvc {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &balanceService{
		BaseService: newBaseService(logger),
		lines:       lines,
		chart:       chart,
		recorder:    recorder,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// GetAccountBalance sums lines of POSTED and REVERSED entries. Reversed entries still count
// because their mirror entry offsets them. asOf is applied at day granularity.
func (s *balanceService) GetAccountBalance(ctx context.Context, accountCode string, tenantID *string, asOf *time.Time) (*domain.AccountBalance, error) {
	account, err := s.chart.FindByCode(ctx, tenantID, accountCode)
	if err != nil {
		return nil, err
	}

	var asOfDate *time.Time
	if asOf != nil {
		d := domain.DateOnly(*asOf)
		asOfDate = &d
	}

	debit, credit, err := s.lines.SumLinesForAccount(ctx, account.AccountID, asOfDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account lines", tenantAttr(tenantID), slog.String("account_code", accountCode))
		return nil, apperrors.NewInternalError("failed to compute account balance", err)
	}

	balance, err := accounting.NetBalance(account.AccountType, debit, credit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to compute account balance", err)
	}

	s.recorder.BalanceQueried()
	s.GetLogger(ctx).Debug("Account balance computed",
		tenantAttr(tenantID),
		slog.String("account_code", accountCode),
		slog.String("balance", balance.String()))

	return &domain.AccountBalance{
		AccountCode: account.Code,
		AccountType: account.AccountType,
		DebitTotal:  debit,
		CreditTotal: credit,
		Balance:     balance,
		AsOf:        asOfDate,
	}, nil
}
