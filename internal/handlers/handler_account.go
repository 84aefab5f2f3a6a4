package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	chartService   portssvc.ChartReaderSvc
	balanceService portssvc.BalanceSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(chartService portssvc.ChartReaderSvc, balanceService portssvc.BalanceSvc) *accountHandler {
	return &accountHandler{
		chartService:   chartService,
		balanceService: balanceService,
	}
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Param   tenantId query string false "Tenant"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	var q dto.TenantQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.chartService.FindByCode(c.Request.Context(), dto.TenantScope(q.TenantID), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get the balance of an account
// @Description Balance is signed by the account's normal side; asOf limits it to entries dated on or before that day.
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Param   tenantId query string false "Tenant"
// @Param   asOf query string false "YYYY-MM-DD"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{code}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	var q dto.BalanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	var asOf *time.Time
	if q.AsOf != nil && *q.AsOf != "" {
		t, err := time.Parse(dto.DateLayout, *q.AsOf)
		if err != nil {
			respondBindError(c, err)
			return
		}
		asOf = &t
	}

	balance, err := h.balanceService.GetAccountBalance(c.Request.Context(), c.Param("code"), dto.TenantScope(q.TenantID), asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate account balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// RegisterAccountRoutes registers read-only account routes on group.
func RegisterAccountRoutes(group *gin.RouterGroup, chartService portssvc.ChartReaderSvc, balanceService portssvc.BalanceSvc) {
	h := newAccountHandler(chartService, balanceService)

	accounts := group.Group("/accounts")
	{
		accounts.GET("/:code", h.getAccount)
		accounts.GET("/:code/balance", h.getAccountBalance)
	}
}
