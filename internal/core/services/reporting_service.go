package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
	"github.com/kopranet/koperasi_ledger/internal/utils/accounting"
)

// cashCodePrefix is the chart subtree holding cash and cash-equivalent
// accounts (Kas, Bank). The cash-flow statement pivots on these.
const cashCodePrefix = "1-1-1"

// reportingService folds posted ledger lines into report views. Balances are
// always recomputed from journal lines; the persisted account balances are a
// posting-side optimization, not a reporting source, so a discrepancy in
// either shows up here instead of being masked.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
}

// NewReportingService creates a new ReportingSvcFacade.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// ledgerSnapshot is the classified input shared by all three reports.
type ledgerSnapshot struct {
	accounts map[string]domain.Account // Leaf accounts by id
	lines    []domain.JournalLine      // Posted, non-reversal lines in range
	balances map[string]decimal.Decimal
}

func (s *reportingService) loadSnapshot(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*ledgerSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx, koperasiID, portsrepo.ListAccountsFilter{LeafOnly: true})
	if err != nil {
		logger.Error("Failed to list accounts for report", slog.String("error", err.Error()), slog.String("koperasi_id", koperasiID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	accountsMap := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}

	lines, err := s.reportingRepo.FindPostedLines(ctx, koperasiID, dateRange.From, dateRange.To)
	if err != nil {
		logger.Error("Failed to fetch posted lines for report", slog.String("error", err.Error()), slog.String("koperasi_id", koperasiID))
		return nil, fmt.Errorf("failed to fetch posted lines: %w", err)
	}

	balances := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc, found := accountsMap[line.AccountID]
		if !found {
			continue
		}
		signed := accounting.SignedAmount(line, acc.NormalBalance)
		balances[line.AccountID] = balances[line.AccountID].Add(signed)
	}

	return &ledgerSnapshot{accounts: accountsMap, lines: lines, balances: balances}, nil
}

// balancesOfType collects non-zero balances of one account type, ordered by code.
func (snap *ledgerSnapshot) balancesOfType(t domain.AccountType) ([]domain.AccountBalance, decimal.Decimal) {
	var out []domain.AccountBalance
	total := decimal.Zero
	for id, balance := range snap.balances {
		acc := snap.accounts[id]
		if acc.AccountType != t || balance.IsZero() {
			continue
		}
		out = append(out, domain.AccountBalance{
			AccountID:     acc.AccountID,
			Code:          acc.Code,
			Name:          acc.Name,
			AccountType:   acc.AccountType,
			NormalBalance: acc.NormalBalance,
			Balance:       balance,
		})
		total = total.Add(balance)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, total
}

// GetBalanceSheet builds the balance sheet and verifies the accounting
// identity assets == liabilities + equity + currentEarnings. Any imbalance is
// reported in the summary, never corrected.
func (s *reportingService) GetBalanceSheet(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*domain.BalanceSheetReport, error) {
	snap, err := s.loadSnapshot(ctx, koperasiID, dateRange)
	if err != nil {
		return nil, err
	}

	assets, totalAssets := snap.balancesOfType(domain.Asset)
	liabilities, totalLiabilities := snap.balancesOfType(domain.Liability)
	equity, totalEquity := snap.balancesOfType(domain.Equity)
	_, totalRevenue := snap.balancesOfType(domain.Revenue)
	_, totalExpenses := snap.balancesOfType(domain.Expense)

	// Net income not yet closed to equity participates on the equity side.
	currentEarnings := totalRevenue.Sub(totalExpenses)
	discrepancy := totalAssets.Sub(totalLiabilities.Add(totalEquity).Add(currentEarnings))

	return &domain.BalanceSheetReport{
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
		CurrentEarnings:  currentEarnings,
		Summary: domain.ReportSummary{
			IsBalanced:  discrepancy.IsZero(),
			Discrepancy: discrepancy,
		},
	}, nil
}

// GetIncomeStatement folds revenue and expense balances into net profit. The
// summary checks the raw ledger identity total debits == total credits over
// the reporting period.
func (s *reportingService) GetIncomeStatement(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*domain.IncomeStatementReport, error) {
	snap, err := s.loadSnapshot(ctx, koperasiID, dateRange)
	if err != nil {
		return nil, err
	}

	revenue, totalRevenue := snap.balancesOfType(domain.Revenue)
	expenses, totalExpenses := snap.balancesOfType(domain.Expense)

	discrepancy := decimal.Zero
	for _, line := range snap.lines {
		discrepancy = discrepancy.Add(line.Debit).Sub(line.Credit)
	}

	return &domain.IncomeStatementReport{
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetProfit:     totalRevenue.Sub(totalExpenses),
		Summary: domain.ReportSummary{
			IsBalanced:  discrepancy.IsZero(),
			Discrepancy: discrepancy,
		},
	}, nil
}

// GetCashFlowStatement classifies cash movements by the counterparty side of
// each journal touching a cash account: revenue and expense counterparts are
// operating activity, non-cash asset counterparts investing, liability and
// equity counterparts financing.
func (s *reportingService) GetCashFlowStatement(ctx context.Context, koperasiID string, dateRange dto.ReportDateRange) (*domain.CashFlowReport, error) {
	snap, err := s.loadSnapshot(ctx, koperasiID, dateRange)
	if err != nil {
		return nil, err
	}

	isCash := func(accountID string) bool {
		acc, found := snap.accounts[accountID]
		return found && (acc.Code == cashCodePrefix || strings.HasPrefix(acc.Code, cashCodePrefix+"-"))
	}

	byJournal := make(map[string][]domain.JournalLine)
	for _, line := range snap.lines {
		byJournal[line.JournalID] = append(byJournal[line.JournalID], line)
	}

	// amount per counterpart account, keyed by account id
	operating := make(map[string]decimal.Decimal)
	investing := make(map[string]decimal.Decimal)
	financing := make(map[string]decimal.Decimal)
	actualCashDelta := decimal.Zero

	for _, lines := range byJournal {
		touchesCash := false
		for _, line := range lines {
			if isCash(line.AccountID) {
				touchesCash = true
				actualCashDelta = actualCashDelta.Add(line.Debit).Sub(line.Credit)
			}
		}
		if !touchesCash {
			continue
		}
		// Within a balanced entry the non-cash lines mirror the cash movement:
		// a credited counterpart means cash came in, a debited one cash out.
		for _, line := range lines {
			if isCash(line.AccountID) {
				continue
			}
			acc, found := snap.accounts[line.AccountID]
			if !found {
				continue
			}
			flow := line.Credit.Sub(line.Debit)
			switch acc.AccountType {
			case domain.Revenue, domain.Expense:
				operating[line.AccountID] = operating[line.AccountID].Add(flow)
			case domain.Asset:
				investing[line.AccountID] = investing[line.AccountID].Add(flow)
			case domain.Liability, domain.Equity:
				financing[line.AccountID] = financing[line.AccountID].Add(flow)
			}
		}
	}

	opSection := s.buildSection("Operating Activities", operating, snap)
	invSection := s.buildSection("Investing Activities", investing, snap)
	finSection := s.buildSection("Financing Activities", financing, snap)

	netCashFlow := opSection.Subtotal.Add(invSection.Subtotal).Add(finSection.Subtotal)
	discrepancy := netCashFlow.Sub(actualCashDelta)

	return &domain.CashFlowReport{
		Operating:   opSection,
		Investing:   invSection,
		Financing:   finSection,
		NetCashFlow: netCashFlow,
		Summary: domain.ReportSummary{
			IsBalanced:  discrepancy.IsZero(),
			Discrepancy: discrepancy,
		},
	}, nil
}

func (s *reportingService) buildSection(label string, amounts map[string]decimal.Decimal, snap *ledgerSnapshot) domain.CashFlowSection {
	section := domain.CashFlowSection{Label: label, Subtotal: decimal.Zero}
	for id, amount := range amounts {
		if amount.IsZero() {
			continue
		}
		acc := snap.accounts[id]
		section.Items = append(section.Items, domain.CashFlowItem{
			AccountID: acc.AccountID,
			Code:      acc.Code,
			Name:      acc.Name,
			Amount:    amount,
		})
		section.Subtotal = section.Subtotal.Add(amount)
	}
	sort.Slice(section.Items, func(i, j int) bool { return section.Items[i].Code < section.Items[j].Code })
	return section
}
