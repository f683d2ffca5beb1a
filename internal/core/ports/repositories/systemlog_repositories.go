package repositories

import (
	"context"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
)

// SystemLogRepository persists and reads the append-only system log trail.
type SystemLogRepository interface {
	// SaveLog appends a log row. Rows are never updated or deleted.
	SaveLog(ctx context.Context, log domain.SystemLog) error

	// FindLogsByEntityID retrieves logs correlated to an entity, oldest first.
	FindLogsByEntityID(ctx context.Context, entityID string) ([]domain.SystemLog, error)
}
