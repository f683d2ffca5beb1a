package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalsByReferenceID retrieves every journal carrying the given
	// business reference, reversals included, ordered by creation time.
	FindJournalsByReferenceID(ctx context.Context, koperasiID, referenceID string) ([]domain.Journal, error)

	// FindLinesByJournalID retrieves the lines of a journal in insertion order.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)
}

// JournalWriter defines write operations for journal data. A journal row is
// immutable apart from its reversal linkage.
type JournalWriter interface {
	// SaveJournal persists a journal with its lines and applies account
	// balance deltas inside a single database transaction.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// SaveJournalInTx is SaveJournal running inside a caller-owned transaction.
	SaveJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// UpdateJournalStatusAndLinksInTx updates a journal's status and reversal
	// linkage inside a caller-owned transaction.
	UpdateJournalStatusAndLinksInTx(ctx context.Context, tx pgx.Tx, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedBy string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends the facade with transaction management.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
