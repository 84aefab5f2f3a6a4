package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftLine is a caller-supplied line, addressed by account code.
type DraftLine struct {
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description *string         `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// Mirror swaps the debit and credit sides.
func (l DraftLine) Mirror() DraftLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}

// PostingDraft is a proposed entry. It is never persisted as-is.
type PostingDraft struct {
	TenantID        *string
	Reference       *string
	Description     *string
	TransactionDate *time.Time // defaults to today (UTC)
	CurrencyCode    string     // defaults to the configured currency
	Lines           []DraftLine
	Metadata        EntryMetadata
}

// Totals sums the debit and credit columns.
func (d PostingDraft) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range d.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// AccountCodes returns the distinct account codes in first-seen order.
func (d PostingDraft) AccountCodes() []string {
	seen := make(map[string]struct{}, len(d.Lines))
	codes := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		if _, ok := seen[l.AccountCode]; ok {
			continue
		}
		seen[l.AccountCode] = struct{}{}
		codes = append(codes, l.AccountCode)
	}
	return codes
}

// PostingResult is returned by Post and Reverse.
type PostingResult struct {
	EntryID         string          `json:"entryId"`
	TenantID        *string         `json:"tenantId,omitempty"`
	Reference       *string         `json:"reference,omitempty"`
	Status          JournalStatus   `json:"status"`
	TransactionDate time.Time       `json:"transactionDate"`
	CurrencyCode    string          `json:"currencyCode"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	Lines           []DraftLine     `json:"lines"`
}

// AccountBalance is a point-in-time balance for a single account.
type AccountBalance struct {
	AccountCode string          `json:"accountCode"`
	AccountType AccountType     `json:"accountType"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
	AsOf        *time.Time      `json:"asOf,omitempty"`
}

// ListEntriesParams controls ListEntries pagination.
type ListEntriesParams struct {
	Limit     int
	NextToken *string
}

// ListEntriesResult is a page of entries without their lines.
type ListEntriesResult struct {
	Entries   []JournalEntry `json:"entries"`
	NextToken *string        `json:"nextToken,omitempty"`
}
