package domain

import (
	"strings"

	"github.com/shopspring/decimal"
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

// NormalBalance is the side on which an account increases. It is fixed at
// account creation and never changes meaning afterwards.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// Account is a node in a koperasi's chart of accounts. Codes are
// hierarchical (e.g. "1-1-1-01"); the parent is implied by the code prefix.
// Header accounts exist for aggregation only and are never posted to.
type Account struct {
	AccountID     string          `json:"accountID"`  // Primary key (UUID)
	KoperasiID    string          `json:"koperasiID"` // Tenant that owns this chart
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Level         int             `json:"level"`    // Depth implied by code segments
	IsHeader      bool            `json:"isHeader"` // Aggregation-only node
	IsActive      bool            `json:"isActive"`
	Balance       decimal.Decimal `json:"balance"` // Persisted net balance on the normal side
	AuditFields
}

// ParentCode returns the code of the account's parent, or "" for a root.
func (a Account) ParentCode() string {
	idx := strings.LastIndex(a.Code, "-")
	if idx < 0 {
		return ""
	}
	return a.Code[:idx]
}

// DefaultNormalBalance returns the conventional normal side for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}
