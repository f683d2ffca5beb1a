package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType at the storage layer.
type AccountType string

// NormalBalance mirrors domain.NormalBalance at the storage layer.
type NormalBalance string

// Account is the accounts table row.
type Account struct {
	AccountID     string          `db:"account_id"`
	KoperasiID    string          `db:"koperasi_id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	NormalBalance NormalBalance   `db:"normal_balance"`
	Level         int             `db:"level"`
	IsHeader      bool            `db:"is_header"`
	IsActive      bool            `db:"is_active"`
	Balance       decimal.Decimal `db:"balance"`
	AuditFields
}
