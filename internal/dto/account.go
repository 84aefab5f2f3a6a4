package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TenantQuery selects the tenant for read endpoints. Omitted means the global chart.
type TenantQuery struct {
	TenantID *string `form:"tenantId"`
}

// TenantScope maps a blank tenant id to nil, the global scope.
func TenantScope(tenantID *string) *string {
	if tenantID == nil || strings.TrimSpace(*tenantID) == "" {
		return nil
	}
	return tenantID
}

// BalanceQuery adds an optional as-of date.
type BalanceQuery struct {
	TenantID *string `form:"tenantId"`
	AsOf     *string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string    `json:"accountId"`
	TenantID        *string   `json:"tenantId,omitempty"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AccountType     string    `json:"accountType"`
	ParentAccountID *string   `json:"parentAccountId,omitempty"`
	Level           int       `json:"level"`
	IsActive        bool      `json:"isActive"`
	IsSystem        bool      `json:"isSystem"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdatedAt   time.Time `json:"lastUpdatedAt"`
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountCode string          `json:"accountCode"`
	AccountType string          `json:"accountType"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
	AsOf        *string         `json:"asOf,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		TenantID:        a.TenantID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		ParentAccountID: a.ParentAccountID,
		Level:           a.Level,
		IsActive:        a.IsActive,
		IsSystem:        a.IsSystem,
		CreatedAt:       a.CreatedAt,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}

// ToAccountBalanceResponse converts a domain.AccountBalance to its DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	resp := AccountBalanceResponse{
		AccountCode: b.AccountCode,
		AccountType: string(b.AccountType),
		DebitTotal:  b.DebitTotal,
		CreditTotal: b.CreditTotal,
		Balance:     b.Balance,
	}
	if b.AsOf != nil {
		asOf := b.AsOf.Format(DateLayout)
		resp.AsOf = &asOf
	}
	return resp
}
