package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a row of the accounts table.
// A NULL tenant_id marks a global account.
type Account struct {
	AccountID       string      `db:"account_id"`
	TenantID        *string     `db:"tenant_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID *string     `db:"parent_account_id"`
	Level           int         `db:"level"`
	IsActive        bool        `db:"is_active"`
	IsSystem        bool        `db:"is_system"`
	AuditFields
}
