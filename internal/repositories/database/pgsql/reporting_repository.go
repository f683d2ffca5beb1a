package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	"github.com/kopranet/koperasi_ledger/internal/models"
	"github.com/kopranet/koperasi_ledger/internal/utils/mapping"
)

type ReportingRepository struct {
	pool *pgxpool.Pool
}

// newReportingRepository creates the read-only ledger projection used by the
// report classifiers.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &ReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

// FindPostedLines retrieves all lines of POSTED, non-reversal journals in the
// date range. Reversed journals and their offsetting entries net to zero by
// construction, so excluding both keeps reports on effective postings only.
func (r *ReportingRepository) FindPostedLines(ctx context.Context, koperasiID string, from, to time.Time) ([]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.journal_id, l.account_id, l.debit, l.credit,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE j.koperasi_id = $1
		  AND j.status = $2
		  AND j.original_journal_id IS NULL
	`
	args := []any{koperasiID, string(domain.Posted)}

	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND j.journal_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND j.journal_date <= $%d", len(args))
	}
	query += " ORDER BY l.journal_id, l.line_id;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines: %w", err)
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
			return nil, fmt.Errorf("failed to scan posted line: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted lines: %w", err)
	}
	return mapping.ToDomainJournalLineSlice(out), nil
}
