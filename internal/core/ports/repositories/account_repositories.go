package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListAccountsFilter narrows an account listing.
type ListAccountsFilter struct {
	AccountType *domain.AccountType
	LeafOnly    bool // Exclude header accounts
	CodePrefix  string
}

// AccountReader defines read operations over the chart of accounts.
type AccountReader interface {
	// FindAccountByID retrieves an account by id within a koperasi.
	FindAccountByID(ctx context.Context, koperasiID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its hierarchical code within a koperasi.
	FindAccountByCode(ctx context.Context, koperasiID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids
	// are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, koperasiID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts ordered by code; hierarchy is implied by
	// code prefixes.
	ListAccounts(ctx context.Context, koperasiID string, filter ListAccountsFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations over the chart of accounts.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// FindAccountsByIDsForUpdate locks the given account rows inside tx and
	// returns them. Ids are locked in sorted order to avoid deadlocks.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, koperasiID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to the given
	// accounts inside tx.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
