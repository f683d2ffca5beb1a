package services

import (
	"context"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// FulfillmentChecker answers whether the operational side of a transaction
// completed. Each operational subsystem registers its own checker; the check
// must be idempotent since reconciliation runs repeatedly.
type FulfillmentChecker interface {
	// IsComplete reports completion together with a human-readable reason.
	IsComplete(ctx context.Context, txn domain.MarketplaceTransaction) (bool, string, error)
}

// FulfillmentRegistry maps an entity type to its checker.
type FulfillmentRegistry map[domain.EntityType]FulfillmentChecker

// ReconciliationSvcFacade drives stuck transactions to a terminal,
// ledger-consistent state. It is a plain callable; scheduling is external.
type ReconciliationSvcFacade interface {
	// FindStuckTransactions lists transactions in journal_locked or fulfilled
	// older than the threshold.
	FindStuckTransactions(ctx context.Context, koperasiID string, thresholdMinutes int) ([]domain.MarketplaceTransaction, error)

	// AutoReconcile settles confirmed transactions and reverses the rest.
	// Idempotent: already-terminal transactions yield no-op results; a failure
	// on one item never aborts the others.
	AutoReconcile(ctx context.Context, koperasiID string, thresholdMinutes int, actor string) ([]dto.ReconcileResult, error)
}
