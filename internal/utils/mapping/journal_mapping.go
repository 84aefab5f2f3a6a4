package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry.
// Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, error) {
	meta, err := MarshalEntryMetadata(d.Metadata)
	if err != nil {
		return models.JournalEntry{}, err
	}
	return models.JournalEntry{
		EntryID:         d.EntryID,
		TenantID:        d.TenantID,
		Reference:       d.Reference,
		Description:     d.Description,
		Status:          models.JournalStatus(d.Status),
		TransactionDate: domain.DateOnly(d.TransactionDate),
		CurrencyCode:    d.CurrencyCode,
		TotalDebit:      d.TotalDebit,
		TotalCredit:     d.TotalCredit,
		Metadata:        meta,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) (domain.JournalEntry, error) {
	meta, err := UnmarshalEntryMetadata(m.Metadata)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("entry %s: %w", m.EntryID, err)
	}
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		TenantID:        m.TenantID,
		Reference:       m.Reference,
		Description:     m.Description,
		Status:          domain.JournalStatus(m.Status),
		TransactionDate: domain.DateOnly(m.TransactionDate),
		CurrencyCode:    m.CurrencyCode,
		TotalDebit:      m.TotalDebit,
		TotalCredit:     m.TotalCredit,
		Metadata:        meta,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelJournalEntryLine converts a domain JournalEntryLine to a model JournalEntryLine
func ToModelJournalEntryLine(d domain.JournalEntryLine) (models.JournalEntryLine, error) {
	var meta []byte
	if len(d.Metadata) > 0 {
		b, err := json.Marshal(d.Metadata)
		if err != nil {
			return models.JournalEntryLine{}, fmt.Errorf("marshal line %d metadata: %w", d.LineNo, err)
		}
		meta = b
	}
	return models.JournalEntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		LineNo:      d.LineNo,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		Metadata:    meta,
		CreatedAt:   d.CreatedAt,
	}, nil
}

// ToDomainJournalEntryLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainJournalEntryLine(m models.JournalEntryLine) (domain.JournalEntryLine, error) {
	var meta map[string]any
	if len(m.Metadata) > 0 && string(m.Metadata) != "null" {
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.JournalEntryLine{}, fmt.Errorf("unmarshal line %s metadata: %w", m.LineID, err)
		}
	}
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		LineNo:      m.LineNo,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		Metadata:    meta,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// MarshalEntryMetadata renders the metadata document; an empty document is "{}".
func MarshalEntryMetadata(m domain.EntryMetadata) ([]byte, error) {
	if m.IsZero() {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal entry metadata: %w", err)
	}
	return b, nil
}

// UnmarshalEntryMetadata parses a metadata document. NULL and empty input yield a zero value.
func UnmarshalEntryMetadata(b []byte) (domain.EntryMetadata, error) {
	var m domain.EntryMetadata
	if len(b) == 0 || string(b) == "null" {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("unmarshal entry metadata: %w", err)
	}
	return m, nil
}
