package services

import (
	"context"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// ReportingSvcFacade folds ledger balances into report views. Pure read path:
// discrepancies are surfaced in the summary, never corrected.
type ReportingSvcFacade interface {
	GetBalanceSheet(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*domain.BalanceSheetReport, error)
	GetIncomeStatement(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*domain.IncomeStatementReport, error)
	GetCashFlowStatement(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*domain.CashFlowReport, error)
}
