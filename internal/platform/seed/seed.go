// Package seed loads chart-of-accounts seed files.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// File is the YAML layout of a seed file:
//
//	accounts:
//	  - code: "1000"
//	    name: Assets
//	    type: ASSET
//	  - code: "1010"
//	    name: Cash
//	    type: asset
//	    parent: "1000"
type File struct {
	Accounts []domain.AccountSeed `yaml:"accounts"`
}

// LoadFile reads and parses a seed file from disk.
func LoadFile(path string) ([]domain.AccountSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML. Account types are case-insensitive.
func Parse(data []byte) ([]domain.AccountSeed, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(f.Accounts) == 0 {
		return nil, fmt.Errorf("seed file lists no accounts")
	}
	for i, s := range f.Accounts {
		t, err := domain.ParseAccountType(string(s.Type))
		if err != nil {
			return nil, fmt.Errorf("account %d (%s): %w", i+1, s.Code, err)
		}
		f.Accounts[i].Type = t
	}
	return f.Accounts, nil
}

// Default returns a minimal IFRS-style chart: one root per account type,
// the usual operating accounts beneath them, and the system accounts the engine relies on.
func Default() []domain.AccountSeed {
	return []domain.AccountSeed{
		// Assets (1xxx)
		{Code: "1000", Name: "Assets", Type: domain.Asset},
		{Code: "1010", Name: "Cash and Bank", Type: domain.Asset, ParentCode: "1000"},
		{Code: "1020", Name: "Accounts Receivable", Type: domain.Asset, ParentCode: "1000"},
		{Code: "1030", Name: "Inventory", Type: domain.Asset, ParentCode: "1000"},
		{Code: "1040", Name: "Prepaid Expenses", Type: domain.Asset, ParentCode: "1000"},
		{Code: "1050", Name: "Property, Plant & Equipment", Type: domain.Asset, ParentCode: "1000"},
		{Code: "1098", Name: "Settlement", Type: domain.Asset, ParentCode: "1000", System: true},
		{Code: "1099", Name: "Suspense", Type: domain.Asset, ParentCode: "1000", System: true},

		// Liabilities (2xxx)
		{Code: "2000", Name: "Liabilities", Type: domain.Liability},
		{Code: "2010", Name: "Accounts Payable", Type: domain.Liability, ParentCode: "2000"},
		{Code: "2020", Name: "Customer Deposits", Type: domain.Liability, ParentCode: "2000"},
		{Code: "2030", Name: "Accrued Expenses", Type: domain.Liability, ParentCode: "2000"},
		{Code: "2040", Name: "Loans Payable", Type: domain.Liability, ParentCode: "2000"},
		{Code: "2098", Name: "Tax Collected", Type: domain.Liability, ParentCode: "2000", System: true},

		// Equity (3xxx)
		{Code: "3000", Name: "Equity", Type: domain.Equity},
		{Code: "3010", Name: "Retained Earnings", Type: domain.Equity, ParentCode: "3000"},
		{Code: "3020", Name: "Common Stock", Type: domain.Equity, ParentCode: "3000"},
		{Code: "3099", Name: "Owner Capital", Type: domain.Equity, ParentCode: "3000", System: true},

		// Revenue (4xxx)
		{Code: "4000", Name: "Revenue", Type: domain.Revenue},
		{Code: "4010", Name: "Sales Revenue", Type: domain.Revenue, ParentCode: "4000"},
		{Code: "4020", Name: "Service Revenue", Type: domain.Revenue, ParentCode: "4000"},
		{Code: "4090", Name: "Fee Income", Type: domain.Revenue, ParentCode: "4000", System: true},

		// Expenses (5xxx)
		{Code: "5000", Name: "Expenses", Type: domain.Expense},
		{Code: "5010", Name: "Operating Expenses", Type: domain.Expense, ParentCode: "5000"},
		{Code: "5020", Name: "Cost of Goods Sold", Type: domain.Expense, ParentCode: "5000"},
		{Code: "5030", Name: "Salaries and Wages", Type: domain.Expense, ParentCode: "5000"},
		{Code: "5040", Name: "Depreciation", Type: domain.Expense, ParentCode: "5000"},
		{Code: "5091", Name: "Write-offs", Type: domain.Expense, ParentCode: "5000", System: true},
	}
}
