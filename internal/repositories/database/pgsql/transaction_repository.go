package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	"github.com/kopranet/koperasi_ledger/internal/models"
	"github.com/kopranet/koperasi_ledger/internal/utils/mapping"
)

const transactionColumns = `transaction_id, koperasi_id, type, entity_type, entity_id, journal_id, amount, status, last_transition_at, created_at, created_by, last_updated_at, last_updated_by`

const transactionEventColumns = `event_id, transaction_id, kind, from_status, to_status, actor, notes, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for marketplace
// transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// SaveTransaction persists a newly initiated transaction together with its
// first history event, atomically.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.MarketplaceTransaction, event domain.TransactionEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO marketplace_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.KoperasiID,
		m.Type,
		m.EntityType,
		m.EntityID,
		m.JournalID,
		m.Amount,
		m.Status,
		m.LastTransitionAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	if err := r.AppendEventInTx(ctx, tx, event); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction by id within a koperasi.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, koperasiID, transactionID string) (*domain.MarketplaceTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM marketplace_transactions WHERE koperasi_id = $1 AND transaction_id = $2;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, koperasiID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// FindTransactionsByEntityID retrieves transactions referencing an
// operational record, oldest first.
func (r *PgxTransactionRepository) FindTransactionsByEntityID(ctx context.Context, koperasiID, entityID string) ([]domain.MarketplaceTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM marketplace_transactions WHERE koperasi_id = $1 AND entity_id = $2 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, koperasiID, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by entity %s: %w", entityID, err)
	}
	defer rows.Close()

	return collectTransactionRows(rows)
}

// FindTransactionByJournalID retrieves the transaction linked to a journal.
func (r *PgxTransactionRepository) FindTransactionByJournalID(ctx context.Context, koperasiID, journalID string) (*domain.MarketplaceTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM marketplace_transactions WHERE koperasi_id = $1 AND journal_id = $2;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, koperasiID, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no transaction linked to journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("failed to find transaction by journal %s: %w", journalID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// FindStuckTransactions retrieves transactions in journal_locked or fulfilled
// whose last transition is older than the cutoff.
func (r *PgxTransactionRepository) FindStuckTransactions(ctx context.Context, koperasiID string, cutoff time.Time) ([]domain.MarketplaceTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM marketplace_transactions
		WHERE koperasi_id = $1
		  AND status IN ($2, $3)
		  AND last_transition_at < $4
		ORDER BY last_transition_at;
	`
	rows, err := r.Pool.Query(ctx, query, koperasiID,
		string(domain.StatusJournalLocked), string(domain.StatusFulfilled), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactionRows(rows)
}

// ListEventsByTransactionID retrieves the append-only event history in
// chronological order.
func (r *PgxTransactionRepository) ListEventsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionEvent, error) {
	query := `SELECT ` + transactionEventColumns + ` FROM marketplace_transaction_events WHERE transaction_id = $1 ORDER BY created_at, event_id;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var out []domain.TransactionEvent
	for rows.Next() {
		var m models.TransactionEvent
		if err := rows.Scan(
			&m.EventID,
			&m.TransactionID,
			&m.Kind,
			&m.FromStatus,
			&m.ToStatus,
			&m.Actor,
			&m.Notes,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		out = append(out, mapping.ToDomainTransactionEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return out, nil
}

// FindTransactionByIDForUpdate locks the transaction row inside tx,
// serializing concurrent transition attempts.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, koperasiID, transactionID string) (*domain.MarketplaceTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM marketplace_transactions WHERE koperasi_id = $1 AND transaction_id = $2 FOR UPDATE;`

	m, err := scanTransaction(tx.QueryRow(ctx, query, koperasiID, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// UpdateTransactionStatusInTx advances a transaction guarded by its expected
// current status. A zero-row update means another transition got there first.
func (r *PgxTransactionRepository) UpdateTransactionStatusInTx(ctx context.Context, tx pgx.Tx, transactionID string, expected, next domain.TransactionStatus, journalID *string, entityID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE marketplace_transactions
		SET status = $1, journal_id = $2, entity_id = $3, last_transition_at = $4, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $6 AND status = $7;
	`
	tag, err := tx.Exec(ctx, query,
		string(next), journalID, entityID, now, updatedBy, transactionID, string(expected))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is no longer %s", apperrors.ErrStaleState, transactionID, expected)
	}
	return nil
}

// AppendEventInTx appends a history event inside tx.
func (r *PgxTransactionRepository) AppendEventInTx(ctx context.Context, tx pgx.Tx, event domain.TransactionEvent) error {
	m := mapping.ToModelTransactionEvent(event)
	query := `
		INSERT INTO marketplace_transaction_events (` + transactionEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		m.EventID,
		m.TransactionID,
		m.Kind,
		m.FromStatus,
		m.ToStatus,
		m.Actor,
		m.Notes,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert event for transaction "+m.TransactionID, err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (*models.MarketplaceTransaction, error) {
	var m models.MarketplaceTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.KoperasiID,
		&m.Type,
		&m.EntityType,
		&m.EntityID,
		&m.JournalID,
		&m.Amount,
		&m.Status,
		&m.LastTransitionAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectTransactionRows(rows pgx.Rows) ([]domain.MarketplaceTransaction, error) {
	var out []domain.MarketplaceTransaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return out, nil
}
