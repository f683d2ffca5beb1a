package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
)

// TransactionReader defines read operations for marketplace transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by id within a koperasi.
	FindTransactionByID(ctx context.Context, koperasiID, transactionID string) (*domain.MarketplaceTransaction, error)

	// FindTransactionsByEntityID retrieves transactions referencing an
	// operational record (invoice/customer number style lookup).
	FindTransactionsByEntityID(ctx context.Context, koperasiID, entityID string) ([]domain.MarketplaceTransaction, error)

	// FindTransactionByJournalID retrieves the transaction linked to a journal.
	FindTransactionByJournalID(ctx context.Context, koperasiID, journalID string) (*domain.MarketplaceTransaction, error)

	// FindStuckTransactions retrieves transactions in journal_locked or
	// fulfilled whose last transition is older than the cutoff.
	FindStuckTransactions(ctx context.Context, koperasiID string, cutoff time.Time) ([]domain.MarketplaceTransaction, error)

	// ListEventsByTransactionID retrieves the append-only event history in
	// chronological order.
	ListEventsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionEvent, error)
}

// TransactionWriter defines write operations for marketplace transactions.
// Status changes only ever happen through the state machine service.
type TransactionWriter interface {
	// SaveTransaction persists a newly initiated transaction together with its
	// first history event, atomically.
	SaveTransaction(ctx context.Context, txn domain.MarketplaceTransaction, event domain.TransactionEvent) error

	// FindTransactionByIDForUpdate locks the transaction row inside tx,
	// serializing concurrent transition attempts.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, koperasiID, transactionID string) (*domain.MarketplaceTransaction, error)

	// UpdateTransactionStatusInTx advances a transaction guarded by its
	// expected current status. A zero-row update reports apperrors.ErrStaleState.
	UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, expected, next domain.TransactionStatus, journalID *string, entityID string, updatedBy string, now time.Time) error

	// AppendEventInTx appends a transition event inside tx.
	AppendEventInTx(ctx context.Context, tx pgx.Tx, event domain.TransactionEvent) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends the facade with transaction management.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
