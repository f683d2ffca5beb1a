package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/core/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	mockAccountRepo   *MockAccountRepository
	service           portssvc.ReportingSvcFacade
	koperasiID        string
	cash              domain.Account
	bank              domain.Account
	inventory         domain.Account
	savings           domain.Account
	capital           domain.Account
	sales             domain.Account
	cogs              domain.Account
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo, suite.mockAccountRepo)

	suite.koperasiID = uuid.NewString()

	suite.cash = suite.leafAccount("1-1-1-01", "Kas", domain.Asset, domain.DebitNormal)
	suite.bank = suite.leafAccount("1-1-1-02", "Bank", domain.Asset, domain.DebitNormal)
	suite.inventory = suite.leafAccount("1-1-3-01", "Persediaan Barang Dagang", domain.Asset, domain.DebitNormal)
	suite.savings = suite.leafAccount("2-1-1-01", "Simpanan Sukarela", domain.Liability, domain.CreditNormal)
	suite.capital = suite.leafAccount("3-1-1-01", "Simpanan Pokok", domain.Equity, domain.CreditNormal)
	suite.sales = suite.leafAccount("4-1-1-01", "Penjualan Retail", domain.Revenue, domain.CreditNormal)
	suite.cogs = suite.leafAccount("5-1-1-01", "Harga Pokok Penjualan", domain.Expense, domain.DebitNormal)
}

func (suite *ReportingServiceTestSuite) leafAccount(code, name string, t domain.AccountType, normal domain.NormalBalance) domain.Account {
	return domain.Account{
		AccountID:     uuid.NewString(),
		KoperasiID:    suite.koperasiID,
		Code:          code,
		Name:          name,
		AccountType:   t,
		NormalBalance: normal,
		IsActive:      true,
	}
}

func (suite *ReportingServiceTestSuite) expectSnapshot(lines []domain.JournalLine, accounts ...domain.Account) {
	suite.mockAccountRepo.On("ListAccounts", mock.Anything, suite.koperasiID, mock.Anything).Return(accounts, nil).Once()
	suite.mockReportingRepo.On("FindPostedLines", mock.Anything, suite.koperasiID, mock.Anything, mock.Anything).Return(lines, nil).Once()
}

func line(journalID string, acc domain.Account, debit, credit int64) domain.JournalLine {
	return domain.JournalLine{
		LineID:    uuid.NewString(),
		JournalID: journalID,
		AccountID: acc.AccountID,
		Debit:     decimal.NewFromInt(debit),
		Credit:    decimal.NewFromInt(credit),
	}
}

// capitalAndSaleLines is a small but complete ledger: a 1,000,000 capital
// injection into cash and a 500,000 cash sale.
func (suite *ReportingServiceTestSuite) capitalAndSaleLines() []domain.JournalLine {
	capitalJournal := uuid.NewString()
	saleJournal := uuid.NewString()
	return []domain.JournalLine{
		line(capitalJournal, suite.cash, 1000000, 0),
		line(capitalJournal, suite.capital, 0, 1000000),
		line(saleJournal, suite.cash, 500000, 0),
		line(saleJournal, suite.sales, 0, 500000),
	}
}

func (suite *ReportingServiceTestSuite) allAccounts() []domain.Account {
	return []domain.Account{suite.cash, suite.bank, suite.inventory, suite.savings, suite.capital, suite.sales, suite.cogs}
}

// --- Balance Sheet ---

func (suite *ReportingServiceTestSuite) TestBalanceSheet_IdentityHolds() {
	ctx := context.Background()
	suite.expectSnapshot(suite.capitalAndSaleLines(), suite.allAccounts()...)

	report, err := suite.service.GetBalanceSheet(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1500000)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(1000000)))
	suite.True(report.TotalLiabilities.IsZero())
	suite.True(report.CurrentEarnings.Equal(decimal.NewFromInt(500000)))
	suite.True(report.Summary.IsBalanced)
	suite.True(report.Summary.Discrepancy.IsZero())

	// Only touched accounts appear, ordered by code.
	suite.Require().Len(report.Assets, 1)
	suite.Equal("1-1-1-01", report.Assets[0].Code)
	suite.Require().Len(report.Equity, 1)
	suite.Equal("3-1-1-01", report.Equity[0].Code)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_SurfacesDiscrepancy() {
	ctx := context.Background()
	// A one-legged journal: corrupt data that should never exist, but the
	// report must expose it rather than mask it.
	corrupt := []domain.JournalLine{
		line(uuid.NewString(), suite.cash, 1000, 0),
	}
	suite.expectSnapshot(corrupt, suite.allAccounts()...)

	report, err := suite.service.GetBalanceSheet(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.False(report.Summary.IsBalanced)
	suite.True(report.Summary.Discrepancy.Equal(decimal.NewFromInt(1000)))
}

// --- Income Statement ---

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetProfit() {
	ctx := context.Background()
	lines := suite.capitalAndSaleLines()
	// Add cost of goods: 200,000 expense paid from inventory.
	cogsJournal := uuid.NewString()
	lines = append(lines,
		line(cogsJournal, suite.cogs, 200000, 0),
		line(cogsJournal, suite.inventory, 0, 200000),
	)
	suite.expectSnapshot(lines, suite.allAccounts()...)

	report, err := suite.service.GetIncomeStatement(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.True(report.TotalRevenue.Equal(decimal.NewFromInt(500000)))
	suite.True(report.TotalExpenses.Equal(decimal.NewFromInt(200000)))
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(300000)))
	suite.True(report.Summary.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_EmptyLedger() {
	ctx := context.Background()
	suite.expectSnapshot([]domain.JournalLine{}, suite.allAccounts()...)

	report, err := suite.service.GetIncomeStatement(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.Empty(report.Revenue)
	suite.Empty(report.Expenses)
	suite.True(report.NetProfit.IsZero())
	suite.True(report.Summary.IsBalanced)
}

// --- Cash Flow ---

func (suite *ReportingServiceTestSuite) TestCashFlow_Classification() {
	ctx := context.Background()
	capitalJournal := uuid.NewString()
	saleJournal := uuid.NewString()
	inventoryJournal := uuid.NewString()
	depositJournal := uuid.NewString()
	lines := []domain.JournalLine{
		// Capital injection: financing inflow of 1,000,000.
		line(capitalJournal, suite.cash, 1000000, 0),
		line(capitalJournal, suite.capital, 0, 1000000),
		// Cash sale: operating inflow of 500,000.
		line(saleJournal, suite.cash, 500000, 0),
		line(saleJournal, suite.sales, 0, 500000),
		// Cash purchase of inventory: investing outflow of 300,000.
		line(inventoryJournal, suite.inventory, 300000, 0),
		line(inventoryJournal, suite.cash, 0, 300000),
		// Member savings deposit into the bank: financing inflow of 150,000.
		line(depositJournal, suite.bank, 150000, 0),
		line(depositJournal, suite.savings, 0, 150000),
	}
	suite.expectSnapshot(lines, suite.allAccounts()...)

	report, err := suite.service.GetCashFlowStatement(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.True(report.Operating.Subtotal.Equal(decimal.NewFromInt(500000)))
	suite.True(report.Investing.Subtotal.Equal(decimal.NewFromInt(-300000)))
	suite.True(report.Financing.Subtotal.Equal(decimal.NewFromInt(1150000)))
	suite.True(report.NetCashFlow.Equal(decimal.NewFromInt(1350000)))
	suite.True(report.Summary.IsBalanced)
	suite.True(report.Summary.Discrepancy.IsZero())
}

func (suite *ReportingServiceTestSuite) TestCashFlow_IgnoresNonCashJournals() {
	ctx := context.Background()
	// Inventory bought on credit: no cash account touched, so the statement
	// must skip the whole journal.
	creditPurchase := uuid.NewString()
	lines := []domain.JournalLine{
		line(creditPurchase, suite.inventory, 400000, 0),
		line(creditPurchase, suite.savings, 0, 400000),
	}
	suite.expectSnapshot(lines, suite.allAccounts()...)

	report, err := suite.service.GetCashFlowStatement(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.Empty(report.Operating.Items)
	suite.Empty(report.Investing.Items)
	suite.Empty(report.Financing.Items)
	suite.True(report.NetCashFlow.IsZero())
	suite.True(report.Summary.IsBalanced)
}

func (suite *ReportingServiceTestSuite) TestCashFlow_CashToCashTransfer() {
	ctx := context.Background()
	// Kas to Bank: both sides in the cash subtree, net cash delta zero and no
	// counterpart items.
	transfer := uuid.NewString()
	lines := []domain.JournalLine{
		line(transfer, suite.bank, 250000, 0),
		line(transfer, suite.cash, 0, 250000),
	}
	suite.expectSnapshot(lines, suite.allAccounts()...)

	report, err := suite.service.GetCashFlowStatement(ctx, suite.koperasiID, dto.ReportDateRange{})

	suite.Require().NoError(err)
	suite.True(report.NetCashFlow.IsZero())
	suite.True(report.Summary.IsBalanced)
	suite.Empty(report.Investing.Items)
}

func (suite *ReportingServiceTestSuite) TestReports_DateRangePassedThrough() {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	suite.mockAccountRepo.On("ListAccounts", mock.Anything, suite.koperasiID, mock.Anything).Return(suite.allAccounts(), nil).Once()
	suite.mockReportingRepo.On("FindPostedLines", mock.Anything, suite.koperasiID, from, to).Return([]domain.JournalLine{}, nil).Once()

	_, err := suite.service.GetIncomeStatement(ctx, suite.koperasiID, dto.ReportDateRange{From: from, To: to})

	suite.Require().NoError(err)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
