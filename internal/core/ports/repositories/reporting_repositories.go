package repositories

import (
	"context"
	"time"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
)

// ReportingRepository is the read-only ledger projection used by the report
// classifiers. Reversed journals and their offsetting entries are excluded so
// reports reflect only effective postings.
type ReportingRepository interface {
	// FindPostedLines retrieves all lines of POSTED, non-reversal journals
	// within the date range (inclusive bounds, zero times are open ends).
	FindPostedLines(ctx context.Context, koperasiID string, from, to time.Time) ([]domain.JournalLine, error)
}
