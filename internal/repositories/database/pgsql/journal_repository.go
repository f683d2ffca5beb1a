package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	"github.com/kopranet/koperasi_ledger/internal/models"
	"github.com/kopranet/koperasi_ledger/internal/utils/mapping"
)

const journalColumns = `journal_id, koperasi_id, journal_date, description, reference_id, reference_type, business_unit, status, original_journal_id, reversing_journal_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_id, account_id, debit, credit, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal and line data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// SaveJournal persists a journal with its lines and applies account balance
// deltas within its own DB transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveJournalInTx(ctx, tx, journal, lines, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveJournalInTx is SaveJournal running inside a caller-owned transaction:
// insert the journal row, lock and adjust the touched accounts, then batch
// insert the lines.
func (r *PgxJournalRepository) SaveJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	m := mapping.ToModelJournal(journal)

	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, journalQuery,
		m.JournalID,
		m.KoperasiID,
		m.JournalDate,
		m.Description,
		m.ReferenceID,
		m.ReferenceType,
		m.BusinessUnit,
		m.Status,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.Amount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	// Lock before updating so concurrent postings serialize per account.
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, journal.KoperasiID, accountIDs); err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, journal.CreatedBy, journal.CreatedAt); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	lineQuery := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		ml := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.JournalID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+m.JournalID, err)
	}

	return nil
}

// UpdateJournalStatusAndLinksInTx updates a journal's status and reversal
// linkage. The only mutation journals admit.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinksInTx(ctx context.Context, tx pgx.Tx, journalID string, status domain.JournalStatus, reversingJournalID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $1, reversing_journal_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $5;
	`
	tag, err := tx.Exec(ctx, query, string(status), reversingJournalID, updatedAt, updatedBy, journalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for journal "+journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
	}
	return nil
}

// FindJournalByID retrieves a journal by its ID. Lines travel separately.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}
	journal := mapping.ToDomainJournal(*m)
	return &journal, nil
}

// FindJournalsByReferenceID retrieves every journal carrying a business
// reference, reversals included, oldest first.
func (r *PgxJournalRepository) FindJournalsByReferenceID(ctx context.Context, koperasiID, referenceID string) ([]domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE koperasi_id = $1 AND reference_id = $2 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, koperasiID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals by reference %s: %w", referenceID, err)
	}
	defer rows.Close()

	var out []domain.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		out = append(out, mapping.ToDomainJournal(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return out, nil
}

// FindLinesByJournalID retrieves the lines of a journal in insertion order.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	var out []models.JournalLine
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(
			&m.LineID,
			&m.JournalID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows: %w", err)
	}
	return mapping.ToDomainJournalLineSlice(out), nil
}

func scanJournal(row pgx.Row) (*models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.KoperasiID,
		&m.JournalDate,
		&m.Description,
		&m.ReferenceID,
		&m.ReferenceType,
		&m.BusinessUnit,
		&m.Status,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.Amount,
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
