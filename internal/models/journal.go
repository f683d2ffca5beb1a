package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus mirrors domain.JournalStatus at the storage layer.
type JournalStatus string

// Journal is the journals table row.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	KoperasiID         string          `db:"koperasi_id"`
	JournalDate        time.Time       `db:"journal_date"`
	Description        string          `db:"description"`
	ReferenceID        string          `db:"reference_id"`
	ReferenceType      string          `db:"reference_type"`
	BusinessUnit       string          `db:"business_unit"`
	Status             JournalStatus   `db:"status"`
	OriginalJournalID  *string         `db:"original_journal_id"`
	ReversingJournalID *string         `db:"reversing_journal_id"`
	Amount             decimal.Decimal `db:"amount"`
	AuditFields
}

// JournalLine is the journal_lines table row.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	JournalID string          `db:"journal_id"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	AuditFields
}
