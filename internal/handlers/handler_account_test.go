package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// chartFacade lets the reader mock stand in for the full chart service in a ServiceContainer.
type chartFacade struct {
	*MockChartService
}

func (chartFacade) SeedAccounts(_ context.Context, _ *string, _ []domain.AccountSeed, _ string) (*domain.SeedReport, error) {
	return &domain.SeedReport{}, nil
}

type AccountHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockChart   *MockChartService
	mockBalance *MockBalanceService
	mockPosting *MockPostingService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockChart = new(MockChartService)
	suite.mockBalance = new(MockBalanceService)
	suite.mockPosting = new(MockPostingService)

	services := &portssvc.ServiceContainer{
		Chart:   chartFacade{suite.mockChart},
		Posting: suite.mockPosting,
		Balance: suite.mockBalance,
	}
	cfg := &config.Config{MetricsEnabled: true}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "ledger_test_total", Help: "test"}))

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, cfg, services, registry)
}

func (suite *AccountHandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) TestHealth() {
	w := suite.get("/health")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *AccountHandlerTestSuite) TestMetrics() {
	w := suite.get("/metrics")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "ledger_test_total")
}

func (suite *AccountHandlerTestSuite) TestGetAccount() {
	tenant := "tenant-1"
	acc := &domain.Account{AccountID: "a1", TenantID: &tenant, Code: "1000", Name: "Cash", AccountType: domain.Asset, IsActive: true}
	suite.mockChart.On("FindByCode", mock.Anything, &tenant, "1000").Return(acc, nil).Once()

	w := suite.get("/api/v1/accounts/1000?tenantId=tenant-1")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Cash", resp.Name)
	suite.Equal("ASSET", resp.AccountType)
	suite.True(resp.IsActive)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockChart.On("FindByCode", mock.Anything, (*string)(nil), "9999").
		Return(nil, apperrors.NewNotFoundError(apperrors.CodeAccountNotFound, "account 9999 not found")).Once()

	w := suite.get("/api/v1/accounts/9999")

	suite.Equal(http.StatusNotFound, w.Code)
	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("not_found", resp.Error)
	suite.Equal(apperrors.CodeAccountNotFound, resp.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_EmptyTenantIsGlobal() {
	suite.mockChart.On("FindByCode", mock.Anything, (*string)(nil), "1000").
		Return(&domain.Account{AccountID: "a1", Code: "1000", AccountType: domain.Asset}, nil).Once()

	w := suite.get("/api/v1/accounts/1000?tenantId=")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockChart.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_AsOf() {
	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	balance := &domain.AccountBalance{
		AccountCode: "4000",
		AccountType: domain.Revenue,
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.NewFromInt(200),
		Balance:     decimal.NewFromInt(200),
		AsOf:        &day,
	}
	suite.mockBalance.On("GetAccountBalance", mock.Anything, "4000", (*string)(nil),
		mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Equal(day) }),
	).Return(balance, nil).Once()

	w := suite.get("/api/v1/accounts/4000/balance?asOf=2025-01-05")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.NewFromInt(200)))
	suite.Equal("REVENUE", resp.AccountType)
	suite.Require().NotNil(resp.AsOf)
	suite.Equal("2025-01-05", *resp.AsOf)
	suite.mockBalance.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_NoAsOf() {
	suite.mockBalance.On("GetAccountBalance", mock.Anything, "1000", (*string)(nil), (*time.Time)(nil)).
		Return(&domain.AccountBalance{AccountCode: "1000", AccountType: domain.Asset}, nil).Once()

	w := suite.get("/api/v1/accounts/1000/balance")

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "asOf")
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_BadAsOf() {
	w := suite.get("/api/v1/accounts/1000/balance?asOf=yesterday")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBalance.AssertNotCalled(suite.T(), "GetAccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestRequestIDHeader() {
	suite.mockChart.On("FindByCode", mock.Anything, mock.Anything, "1000").
		Return(&domain.Account{AccountID: "a1", Code: "1000", AccountType: domain.Asset}, nil).Once()

	w := suite.get("/api/v1/accounts/1000")

	suite.NotEmpty(w.Header().Get("X-Request-ID"))
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
