package dto

import (
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest creates a node in the chart of accounts.
type CreateAccountRequest struct {
	Code          string               `json:"code" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	AccountType   domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance domain.NormalBalance `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	IsHeader      bool                 `json:"isHeader"`
}

// ListAccountsParams filters an account listing.
type ListAccountsParams struct {
	AccountType string `form:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	LeafOnly    bool   `form:"leafOnly"`
	CodePrefix  string `form:"codePrefix"`
}

// AccountResponse is the exposed account shape.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	Level         int                  `json:"level"`
	IsHeader      bool                 `json:"isHeader"`
	IsActive      bool                 `json:"isActive"`
	Balance       decimal.Decimal      `json:"balance"`
}

// ToAccountResponse maps a domain account to its response shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   a.AccountType,
		NormalBalance: a.NormalBalance,
		Level:         a.Level,
		IsHeader:      a.IsHeader,
		IsActive:      a.IsActive,
		Balance:       a.Balance,
	}
}

// ToAccountResponses maps a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
