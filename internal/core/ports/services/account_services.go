package services

import (
	"context"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// AccountSvcFacade is the chart-of-accounts store.
type AccountSvcFacade interface {
	// CreateAccount validates and persists a new chart node.
	CreateAccount(ctx context.Context, koperasiID string, req dto.CreateAccountRequest, creator string) (*domain.Account, error)

	// ResolveAccountByCode resolves a hierarchical code to its account.
	// apperrors.ErrNotFound is fatal to posting callers: an un-postable side
	// would break the balance invariant, so it is never silently skipped.
	ResolveAccountByCode(ctx context.Context, koperasiID, code string) (*domain.Account, error)

	// GetAccountByIDs bulk-fetches accounts for posting validation.
	GetAccountByIDs(ctx context.Context, koperasiID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts ordered by code.
	ListAccounts(ctx context.Context, koperasiID string, params dto.ListAccountsParams) ([]domain.Account, error)

	// SeedDefaultChart installs the standard koperasi chart of accounts for a
	// new tenant. Existing codes are left untouched.
	SeedDefaultChart(ctx context.Context, koperasiID, creator string) (int, error)
}
