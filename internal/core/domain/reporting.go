package domain

import (
	"github.com/shopspring/decimal"
)

// AccountBalance is an account with its net balance on its normal side.
type AccountBalance struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"`
}

// ReportSummary carries the balancing verdict of a report. Discrepancies are
// surfaced here, never silently corrected.
type ReportSummary struct {
	IsBalanced  bool            `json:"is_balanced"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

// BalanceSheetReport groups net balances into the balance-sheet identity
// assets == liabilities + equity + currentEarnings.
type BalanceSheetReport struct {
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal  `json:"totalEquity"`
	CurrentEarnings  decimal.Decimal  `json:"currentEarnings"` // Net income not yet closed to equity
	Summary          ReportSummary    `json:"summary"`
}

// IncomeStatementReport folds revenue and expense balances into net profit.
type IncomeStatementReport struct {
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetProfit     decimal.Decimal  `json:"netProfit"`
	Summary       ReportSummary    `json:"summary"`
}

// CashFlowSection is one bucket of the cash-flow statement.
type CashFlowSection struct {
	Label    string          `json:"label"`
	Items    []CashFlowItem  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CashFlowItem is a single cash movement grouped by counterparty account.
type CashFlowItem struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"` // Positive = cash in, negative = cash out
}

// CashFlowReport classifies cash movements into operating, investing and
// financing activities.
type CashFlowReport struct {
	Operating   CashFlowSection `json:"operating"`
	Investing   CashFlowSection `json:"investing"`
	Financing   CashFlowSection `json:"financing"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
	Summary     ReportSummary   `json:"summary"`
}
