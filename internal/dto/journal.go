package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// PostLineRequest is one line of a PostEntryRequest.
type PostLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required,max=32"`
	Debit       decimal.Decimal `json:"debit" binding:"decimal_gte0"`
	Credit      decimal.Decimal `json:"credit" binding:"decimal_gte0"`
	Description *string         `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// PostEntryRequest defines the data needed to post a journal entry.
type PostEntryRequest struct {
	TenantID        *string           `json:"tenantId,omitempty" binding:"omitempty,max=64"`
	Reference       *string           `json:"reference,omitempty" binding:"omitempty,max=128"`
	Description     *string           `json:"description,omitempty"`
	TransactionDate *string           `json:"transactionDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Currency        string            `json:"currency,omitempty" binding:"omitempty,len=3"`
	ActorID         string            `json:"actorId,omitempty" binding:"omitempty,max=64"`
	Lines           []PostLineRequest `json:"lines" binding:"dive"`
}

// ToDraft converts the request into a posting draft.
func (r PostEntryRequest) ToDraft() (domain.PostingDraft, error) {
	draft := domain.PostingDraft{
		TenantID:     TenantScope(r.TenantID),
		Reference:    r.Reference,
		Description:  r.Description,
		CurrencyCode: strings.ToUpper(r.Currency),
		Lines:        make([]domain.DraftLine, len(r.Lines)),
	}
	if r.TransactionDate != nil && *r.TransactionDate != "" {
		d, err := time.Parse(DateLayout, *r.TransactionDate)
		if err != nil {
			return domain.PostingDraft{}, fmt.Errorf("transactionDate: %w", err)
		}
		draft.TransactionDate = &d
	}
	for i, l := range r.Lines {
		draft.Lines[i] = domain.DraftLine{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Metadata:    l.Metadata,
		}
	}
	return draft, nil
}

// ReverseEntryRequest defines the body of a reversal call.
type ReverseEntryRequest struct {
	TenantID *string `json:"tenantId,omitempty" binding:"omitempty,max=64"`
	Reason   string  `json:"reason,omitempty" binding:"omitempty,max=512"`
	ActorID  string  `json:"actorId,omitempty" binding:"omitempty,max=64"`
}

// ReconcileEntryRequest defines the body of a reconcile call.
type ReconcileEntryRequest struct {
	TenantID *string `json:"tenantId,omitempty" binding:"omitempty,max=64"`
	ActorID  string  `json:"actorId,omitempty" binding:"omitempty,max=64"`
}

// ListEntriesQuery holds the query parameters of the list endpoint.
type ListEntriesQuery struct {
	TenantID  *string `form:"tenantId"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LineResponse defines the data returned for a journal entry line.
type LineResponse struct {
	LineNo      int             `json:"lineNo,omitempty"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description *string         `json:"description,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
}

// PostingResponse is returned by the post and reverse endpoints.
type PostingResponse struct {
	EntryID         string          `json:"entryId"`
	TenantID        *string         `json:"tenantId,omitempty"`
	Reference       *string         `json:"reference,omitempty"`
	Status          string          `json:"status"`
	TransactionDate string          `json:"transactionDate"`
	Currency        string          `json:"currency"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`
	TotalCredit     decimal.Decimal `json:"totalCredit"`
	Lines           []LineResponse  `json:"lines"`
}

// JournalEntryResponse defines the data returned for a stored journal entry.
type JournalEntryResponse struct {
	EntryID         string               `json:"entryId"`
	TenantID        *string              `json:"tenantId,omitempty"`
	Reference       *string              `json:"reference,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Status          string               `json:"status"`
	TransactionDate string               `json:"transactionDate"`
	Currency        string               `json:"currency"`
	TotalDebit      decimal.Decimal      `json:"totalDebit"`
	TotalCredit     decimal.Decimal      `json:"totalCredit"`
	Metadata        domain.EntryMetadata `json:"metadata"`
	Lines           []LineResponse       `json:"lines,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy,omitempty"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy,omitempty"`
}

// ListJournalEntriesResponse wraps one page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToPostingResponse converts a domain.PostingResult to PostingResponse DTO.
func ToPostingResponse(r *domain.PostingResult) PostingResponse {
	lines := make([]LineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = LineResponse{
			LineNo:      i + 1,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Metadata:    l.Metadata,
		}
	}
	return PostingResponse{
		EntryID:         r.EntryID,
		TenantID:        r.TenantID,
		Reference:       r.Reference,
		Status:          string(r.Status),
		TransactionDate: r.TransactionDate.Format(DateLayout),
		Currency:        r.CurrencyCode,
		TotalDebit:      r.TotalDebit,
		TotalCredit:     r.TotalCredit,
		Lines:           lines,
	}
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:         e.EntryID,
		TenantID:        e.TenantID,
		Reference:       e.Reference,
		Description:     e.Description,
		Status:          string(e.Status),
		TransactionDate: e.TransactionDate.Format(DateLayout),
		Currency:        e.CurrencyCode,
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		Metadata:        e.Metadata,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			LineNo:      l.LineNo,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			Metadata:    l.Metadata,
		})
	}
	return resp
}

// ToListJournalEntriesResponse converts a page of entries to its DTO.
func ToListJournalEntriesResponse(r *domain.ListEntriesResult) ListJournalEntriesResponse {
	entries := make([]JournalEntryResponse, len(r.Entries))
	for i := range r.Entries {
		entries[i] = ToJournalEntryResponse(&r.Entries[i])
	}
	return ListJournalEntriesResponse{Entries: entries, NextToken: r.NextToken}
}
