package services

import (
	"context"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
)

// AuditSvcFacade reconstructs the chain from an external reference to the
// operational record, ledger entries and system logs.
type AuditSvcFacade interface {
	// ResolveAuditTrail tries each resolver strategy in a fixed order and
	// stops at the first match. apperrors.ErrNotFound when every strategy is
	// exhausted.
	ResolveAuditTrail(ctx context.Context, koperasiID, searchTerm string) (*domain.AuditTrail, error)
}
