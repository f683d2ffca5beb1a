package dto

import (
	"time"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a posting request. Exactly one of
// Debit/Credit must be positive.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// PostJournalRequest carries a complete journal entry to the ledger poster.
type PostJournalRequest struct {
	JournalDate   time.Time            `json:"journalDate" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	ReferenceID   string               `json:"referenceID" binding:"required"`
	ReferenceType domain.ReferenceType `json:"referenceType" binding:"required"`
	BusinessUnit  string               `json:"businessUnit" binding:"required"`
	Lines         []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse is the exposed line shape.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalResponse is the exposed journal shape.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	JournalDate        time.Time             `json:"journalDate"`
	Description        string                `json:"description"`
	ReferenceID        string                `json:"referenceID"`
	ReferenceType      domain.ReferenceType  `json:"referenceType"`
	BusinessUnit       string                `json:"businessUnit"`
	Status             domain.JournalStatus  `json:"status"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	Amount             decimal.Decimal       `json:"amount"`
	Lines              []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// ToJournalResponse maps a domain journal to its response shape.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		JournalDate:        j.JournalDate,
		Description:        j.Description,
		ReferenceID:        j.ReferenceID,
		ReferenceType:      j.ReferenceType,
		BusinessUnit:       j.BusinessUnit,
		Status:             j.Status,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		Amount:             j.Amount,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i, line := range j.Lines {
			resp.Lines[i] = JournalLineResponse{
				LineID:    line.LineID,
				AccountID: line.AccountID,
				Debit:     line.Debit,
				Credit:    line.Credit,
			}
		}
	}
	return resp
}

// ToJournalResponses maps a slice of domain journals.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	out := make([]JournalResponse, len(journals))
	for i := range journals {
		out[i] = ToJournalResponse(&journals[i])
	}
	return out
}
