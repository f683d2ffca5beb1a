package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, koperasiID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, koperasiID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, koperasiID, code string) (*domain.Account, error) {
	args := m.Called(ctx, koperasiID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, koperasiID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, koperasiID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, koperasiID string, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	args := m.Called(ctx, koperasiID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, koperasiID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, koperasiID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, updatedBy, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalsByReferenceID(ctx context.Context, koperasiID, referenceID string) ([]domain.Journal, error) {
	args := m.Called(ctx, koperasiID, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, lines, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, tx, journal, lines, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalStatusAndLinksInTx(ctx context.Context, tx pgx.Tx, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, journalID, status, reversingJournalID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryWithTx = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, koperasiID, transactionID string) (*domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, koperasiID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByEntityID(ctx context.Context, koperasiID, entityID string) ([]domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, koperasiID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByJournalID(ctx context.Context, koperasiID, journalID string) (*domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, koperasiID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindStuckTransactions(ctx context.Context, koperasiID string, cutoff time.Time) ([]domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, koperasiID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListEventsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionEvent, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionEvent), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.MarketplaceTransaction, event domain.TransactionEvent) error {
	args := m.Called(ctx, txn, event)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, koperasiID, transactionID string) (*domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, tx, koperasiID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, expected, next domain.TransactionStatus, journalID *string, entityID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, transactionID, expected, next, journalID, entityID, updatedBy, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) AppendEventInTx(ctx context.Context, tx pgx.Tx, event domain.TransactionEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock SystemLogRepository ---

type MockSystemLogRepository struct {
	mock.Mock
}

var _ portsrepo.SystemLogRepository = (*MockSystemLogRepository)(nil)

func (m *MockSystemLogRepository) SaveLog(ctx context.Context, log domain.SystemLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSystemLogRepository) FindLogsByEntityID(ctx context.Context, entityID string) ([]domain.SystemLog, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SystemLog), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) FindPostedLines(ctx context.Context, koperasiID string, from, to time.Time) ([]domain.JournalLine, error) {
	args := m.Called(ctx, koperasiID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, koperasiID string, req dto.CreateAccountRequest, creator string) (*domain.Account, error) {
	args := m.Called(ctx, koperasiID, req, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ResolveAccountByCode(ctx context.Context, koperasiID, code string) (*domain.Account, error) {
	args := m.Called(ctx, koperasiID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, koperasiID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, koperasiID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, koperasiID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, koperasiID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SeedDefaultChart(ctx context.Context, koperasiID, creator string) (int, error) {
	args := m.Called(ctx, koperasiID, creator)
	return args.Int(0), args.Error(1)
}

// --- Mock JournalService ---

type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) PostJournal(ctx context.Context, koperasiID string, req dto.PostJournalRequest, actor string) (*domain.Journal, error) {
	args := m.Called(ctx, koperasiID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) PrepareJournal(ctx context.Context, koperasiID string, req dto.PostJournalRequest, actor string) (*portssvc.PreparedJournal, error) {
	args := m.Called(ctx, koperasiID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PreparedJournal), args.Error(1)
}

func (m *MockJournalService) PrepareReversal(ctx context.Context, koperasiID, journalID, actor string) (*portssvc.PreparedJournal, error) {
	args := m.Called(ctx, koperasiID, journalID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.PreparedJournal), args.Error(1)
}

func (m *MockJournalService) SaveJournalInTx(ctx context.Context, tx pgx.Tx, prepared *portssvc.PreparedJournal) error {
	args := m.Called(ctx, tx, prepared)
	return args.Error(0)
}

func (m *MockJournalService) ReverseJournal(ctx context.Context, koperasiID, journalID, actor string) (*domain.Journal, error) {
	args := m.Called(ctx, koperasiID, journalID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) GetJournalByID(ctx context.Context, koperasiID, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, koperasiID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

// --- Mock TransactionService ---

type MockTransactionService struct {
	mock.Mock
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

func (m *MockTransactionService) CreateTransaction(ctx context.Context, koperasiID string, req dto.CreateTransactionRequest, actor string) (*domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, koperasiID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionService) Transition(ctx context.Context, koperasiID, transactionID string, req dto.TransitionRequest, actor string) (*domain.MarketplaceTransaction, error) {
	args := m.Called(ctx, koperasiID, transactionID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketplaceTransaction), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, koperasiID, transactionID string) (*domain.MarketplaceTransaction, []domain.TransactionEvent, error) {
	args := m.Called(ctx, koperasiID, transactionID)
	var txn *domain.MarketplaceTransaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.MarketplaceTransaction)
	}
	var events []domain.TransactionEvent
	if args.Get(1) != nil {
		events = args.Get(1).([]domain.TransactionEvent)
	}
	return txn, events, args.Error(2)
}

// --- Mock FulfillmentChecker ---

type MockFulfillmentChecker struct {
	mock.Mock
}

var _ portssvc.FulfillmentChecker = (*MockFulfillmentChecker)(nil)

func (m *MockFulfillmentChecker) IsComplete(ctx context.Context, txn domain.MarketplaceTransaction) (bool, string, error) {
	args := m.Called(ctx, txn)
	return args.Bool(0), args.String(1), args.Error(2)
}
