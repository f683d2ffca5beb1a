package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// ReferenceType tags the business origin of a journal entry.
type ReferenceType string

const (
	RefRetailSale           ReferenceType = "RETAIL_SALE"
	RefPPOBPurchase         ReferenceType = "PPOB_PURCHASE"
	RefSavingsDeposit       ReferenceType = "SAVINGS_DEPOSIT"
	RefSavingsWithdrawal    ReferenceType = "SAVINGS_WITHDRAWAL"
	RefLoanDisbursement     ReferenceType = "LOAN_DISBURSEMENT"
	RefLoanRepayment        ReferenceType = "LOAN_REPAYMENT"
	RefCapitalInvestment    ReferenceType = "CAPITAL_INVESTMENT"
	RefStockOpnameAdjust    ReferenceType = "STOCK_OPNAME_ADJUSTMENT"
	RefEscrowRelease        ReferenceType = "ESCROW_RELEASE"
	ReversalSuffix                        = "_REVERSAL"
)

// WithReversalSuffix tags a reference type as a reversal posting.
func (rt ReferenceType) WithReversalSuffix() ReferenceType {
	return rt + ReversalSuffix
}

// Journal represents a single, balanced financial event composed of multiple
// lines. A journal is immutable once committed; corrections are made by
// posting a new, explicitly-reversing journal, never by editing this one.
type Journal struct {
	JournalID          string          `json:"journalID"` // Primary key (UUID)
	KoperasiID         string          `json:"koperasiID"`
	JournalDate        time.Time       `json:"journalDate"`
	Description        string          `json:"description"`
	ReferenceID        string          `json:"referenceID"`   // External/business key (invoice no, txn UUID)
	ReferenceType      ReferenceType   `json:"referenceType"` // SAVINGS_DEPOSIT, LOAN_DISBURSEMENT, ...
	BusinessUnit       string          `json:"businessUnit"`  // retail, savings, loans, ppob, escrow
	Status             JournalStatus   `json:"status"`
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`  // Set on the reversing entry
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"` // Set on the reversed original
	Amount             decimal.Decimal `json:"amount"`                       // Sum of the debit side
	Lines              []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is one leg of a journal. Exactly one of Debit/Credit is
// positive; the other is zero.
type JournalLine struct {
	LineID    string          `json:"lineID"` // Primary key (UUID)
	JournalID string          `json:"journalID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	AuditFields
}

// IsDebit reports whether the line posts on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Swapped returns a copy of the line with debit and credit sides exchanged.
// Used when constructing reversal entries.
func (l JournalLine) Swapped() JournalLine {
	l.Debit, l.Credit = l.Credit, l.Debit
	return l
}
