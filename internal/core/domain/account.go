package domain

import (
	"fmt"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal is true for account types whose balance grows with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// ParseAccountType accepts any casing of a type name.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// Account is a node in a tenant's chart of accounts.
// A nil TenantID marks a global (system-wide) account.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        *string     `json:"tenantID,omitempty"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // same tenant
	Level           int         `json:"level"`                     // root = 0
	IsActive        bool        `json:"isActive"`
	IsSystem        bool        `json:"isSystem"`
	AuditFields
}

// AccountSeed is one row of a chart-of-accounts seed file.
type AccountSeed struct {
	Code       string      `yaml:"code" json:"code"`
	Name       string      `yaml:"name" json:"name"`
	Type       AccountType `yaml:"type" json:"type"`
	ParentCode string      `yaml:"parent,omitempty" json:"parent,omitempty"`
	System     bool        `yaml:"system,omitempty" json:"system,omitempty"`
	Inactive   bool        `yaml:"inactive,omitempty" json:"inactive,omitempty"`
}

// SeedReport summarises a SeedAccounts run.
type SeedReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
	Linked  []string `json:"linked"`
}
