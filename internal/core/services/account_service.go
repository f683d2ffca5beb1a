package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
)

// Account codes are dash-separated numeric segments, e.g. "1-1-1-01".
var accountCodePattern = regexp.MustCompile(`^\d+(-\d+)*$`)

// accountService implements the chart-of-accounts store.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountSvcFacade.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates and persists a new chart node. The level is derived
// from the code depth and the parent (by code prefix) must already exist for
// non-root codes.
func (s *accountService) CreateAccount(ctx context.Context, koperasiID string, req dto.CreateAccountRequest, creator string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.TrimSpace(req.Code)
	if !accountCodePattern.MatchString(code) {
		return nil, fmt.Errorf("%w: account code %q is not a valid hierarchical code", apperrors.ErrValidation, req.Code)
	}

	if existing, err := s.accountRepo.FindAccountByCode(ctx, koperasiID, code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check code uniqueness: %w", err)
	}

	level := strings.Count(code, "-") + 1
	if idx := strings.LastIndex(code, "-"); idx > 0 {
		parentCode := code[:idx]
		parent, err := s.accountRepo.FindAccountByCode(ctx, koperasiID, parentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, parentCode)
			}
			return nil, fmt.Errorf("failed to resolve parent account: %w", err)
		}
		if !parent.IsHeader {
			return nil, fmt.Errorf("%w: parent account %s is not a header account", apperrors.ErrValidation, parentCode)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: account type %s does not match parent type %s", apperrors.ErrValidation, req.AccountType, parent.AccountType)
		}
	}

	normal := req.NormalBalance
	if normal == "" {
		normal = domain.DefaultNormalBalance(req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		KoperasiID:    koperasiID,
		Code:          code,
		Name:          req.Name,
		AccountType:   req.AccountType,
		NormalBalance: normal,
		Level:         level,
		IsHeader:      req.IsHeader,
		IsActive:      true,
		Balance:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

// ResolveAccountByCode resolves a hierarchical code within a koperasi.
func (s *accountService) ResolveAccountByCode(ctx context.Context, koperasiID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, koperasiID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no account with code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to resolve account by code %s: %w", code, err)
	}
	return account, nil
}

// GetAccountByIDs bulk-fetches accounts for posting validation.
func (s *accountService) GetAccountByIDs(ctx context.Context, koperasiID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, koperasiID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts returns accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, koperasiID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.ListAccountsFilter{
		LeafOnly:   params.LeafOnly,
		CodePrefix: params.CodePrefix,
	}
	if params.AccountType != "" {
		t := domain.AccountType(params.AccountType)
		filter.AccountType = &t
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, koperasiID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// defaultChartEntry seeds one node of the standard koperasi chart.
type defaultChartEntry struct {
	code     string
	name     string
	accType  domain.AccountType
	isHeader bool
}

// defaultChart is the standard chart installed for a new koperasi. Codes
// follow the common Indonesian cooperative convention: 1 assets, 2
// liabilities, 3 equity, 4 revenue, 5 expenses.
var defaultChart = []defaultChartEntry{
	{"1", "Aktiva", domain.Asset, true},
	{"1-1", "Aktiva Lancar", domain.Asset, true},
	{"1-1-1", "Kas & Bank", domain.Asset, true},
	{"1-1-1-01", "Kas", domain.Asset, false},
	{"1-1-1-02", "Bank", domain.Asset, false},
	{"1-1-2", "Piutang", domain.Asset, true},
	{"1-1-2-01", "Piutang Anggota", domain.Asset, false},
	{"1-1-2-02", "Piutang Pinjaman", domain.Asset, false},
	{"1-1-3", "Persediaan", domain.Asset, true},
	{"1-1-3-01", "Persediaan Barang Dagang", domain.Asset, false},
	{"2", "Kewajiban", domain.Liability, true},
	{"2-1", "Kewajiban Lancar", domain.Liability, true},
	{"2-1-1", "Simpanan Anggota", domain.Liability, true},
	{"2-1-1-01", "Simpanan Sukarela", domain.Liability, false},
	{"2-1-2", "Titipan", domain.Liability, true},
	{"2-1-2-01", "Dana Escrow", domain.Liability, false},
	{"3", "Ekuitas", domain.Equity, true},
	{"3-1", "Modal", domain.Equity, true},
	{"3-1-1", "Modal Anggota", domain.Equity, true},
	{"3-1-1-01", "Simpanan Pokok", domain.Equity, false},
	{"3-1-1-02", "Simpanan Wajib", domain.Equity, false},
	{"3-1-1-03", "Modal Penyertaan", domain.Equity, false},
	{"4", "Pendapatan", domain.Revenue, true},
	{"4-1", "Pendapatan Usaha", domain.Revenue, true},
	{"4-1-1", "Pendapatan Penjualan & Jasa", domain.Revenue, true},
	{"4-1-1-01", "Penjualan Retail", domain.Revenue, false},
	{"4-1-1-02", "Pendapatan PPOB", domain.Revenue, false},
	{"4-1-1-03", "Pendapatan Jasa Pinjaman", domain.Revenue, false},
	{"5", "Beban", domain.Expense, true},
	{"5-1", "Beban Usaha", domain.Expense, true},
	{"5-1-1", "Beban Pokok & Operasional", domain.Expense, true},
	{"5-1-1-01", "Harga Pokok Penjualan", domain.Expense, false},
	{"5-1-1-02", "Beban Operasional", domain.Expense, false},
}

// SeedDefaultChart installs the standard chart, skipping codes that already
// exist. Returns the number of accounts created.
func (s *accountService) SeedDefaultChart(ctx context.Context, koperasiID, creator string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	created := 0
	now := time.Now().UTC()
	for _, entry := range defaultChart {
		_, err := s.accountRepo.FindAccountByCode(ctx, koperasiID, entry.code)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return created, fmt.Errorf("failed to check existing account %s: %w", entry.code, err)
		}

		account := domain.Account{
			AccountID:     uuid.NewString(),
			KoperasiID:    koperasiID,
			Code:          entry.code,
			Name:          entry.name,
			AccountType:   entry.accType,
			NormalBalance: domain.DefaultNormalBalance(entry.accType),
			Level:         strings.Count(entry.code, "-") + 1,
			IsHeader:      entry.isHeader,
			IsActive:      true,
			Balance:       decimal.Zero,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creator,
				LastUpdatedAt: now,
				LastUpdatedBy: creator,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return created, fmt.Errorf("failed to seed account %s: %w", entry.code, err)
		}
		created++
	}

	logger.Info("Default chart seeded", slog.String("koperasi_id", koperasiID), slog.Int("created", created))
	return created, nil
}
