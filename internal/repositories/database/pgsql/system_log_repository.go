package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	"github.com/kopranet/koperasi_ledger/internal/models"
	"github.com/kopranet/koperasi_ledger/internal/utils/mapping"
)

type PgxSystemLogRepository struct {
	pool *pgxpool.Pool
}

// newPgxSystemLogRepository creates a new repository for system log data.
func newPgxSystemLogRepository(pool *pgxpool.Pool) portsrepo.SystemLogRepository {
	return &PgxSystemLogRepository{pool: pool}
}

var _ portsrepo.SystemLogRepository = (*PgxSystemLogRepository)(nil)

// SaveLog appends a log row. There is no update path; the table is
// write-once by construction.
func (r *PgxSystemLogRepository) SaveLog(ctx context.Context, log domain.SystemLog) error {
	m := mapping.ToModelSystemLog(log)

	var metadata []byte
	if m.Metadata != nil {
		var err error
		metadata, err = json.Marshal(m.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal log metadata: %w", err)
		}
	}

	query := `
		INSERT INTO system_logs (log_id, entity_id, action_type, action_detail, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		m.LogID,
		m.EntityID,
		m.ActionType,
		m.ActionDetail,
		m.Status,
		metadata,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert system log "+m.LogID, err)
	}
	return nil
}

// FindLogsByEntityID retrieves logs correlated to an entity, oldest first.
func (r *PgxSystemLogRepository) FindLogsByEntityID(ctx context.Context, entityID string) ([]domain.SystemLog, error) {
	query := `
		SELECT log_id, entity_id, action_type, action_detail, status, metadata, created_at
		FROM system_logs
		WHERE entity_id = $1
		ORDER BY created_at;
	`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	var out []models.SystemLog
	for rows.Next() {
		var m models.SystemLog
		var metadata []byte
		if err := rows.Scan(
			&m.LogID,
			&m.EntityID,
			&m.ActionType,
			&m.ActionDetail,
			&m.Status,
			&metadata,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &m.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for log %s: %w", m.LogID, err)
			}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return mapping.ToDomainSystemLogSlice(out), nil
}
