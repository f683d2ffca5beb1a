package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
)

const defaultReconcileParallelism = 4

// reconciliationService detects stuck marketplace transactions and drives
// them to a terminal, ledger-consistent state. The ledger itself is never
// inconsistent while a transaction is stuck; reconciliation resolves the
// operational limbo, not a monetary discrepancy.
type reconciliationService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	txnSvc      portssvc.TransactionSvcFacade
	checkers    portssvc.FulfillmentRegistry
	parallelism int
}

// NewReconciliationService creates a new ReconciliationSvcFacade. parallelism
// bounds the number of transactions reconciled concurrently; values below one
// fall back to the default.
func NewReconciliationService(txnRepo portsrepo.TransactionRepositoryFacade, txnSvc portssvc.TransactionSvcFacade, checkers portssvc.FulfillmentRegistry, parallelism int) portssvc.ReconciliationSvcFacade {
	if parallelism < 1 {
		parallelism = defaultReconcileParallelism
	}
	return &reconciliationService{
		txnRepo:     txnRepo,
		txnSvc:      txnSvc,
		checkers:    checkers,
		parallelism: parallelism,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// FindStuckTransactions lists transactions sitting in journal_locked or
// fulfilled whose last transition is older than the threshold. Transactions
// still in initiated never qualify: nothing was posted, so there is nothing
// to reconcile.
func (s *reconciliationService) FindStuckTransactions(ctx context.Context, koperasiID string, thresholdMinutes int) ([]domain.MarketplaceTransaction, error) {
	if thresholdMinutes < 1 {
		return nil, fmt.Errorf("%w: threshold must be at least one minute", apperrors.ErrValidation)
	}
	cutoff := time.Now().UTC().Add(-time.Duration(thresholdMinutes) * time.Minute)
	stuck, err := s.txnRepo.FindStuckTransactions(ctx, koperasiID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to find stuck transactions: %w", err)
	}
	return stuck, nil
}

// AutoReconcile drives each stuck transaction forward: confirmed fulfillment
// settles it through the normal state machine path, unconfirmed fulfillment
// reverses it with an offsetting ledger entry. One failing item never aborts
// the batch, and a transaction that reached a terminal state between listing
// and processing yields a no-op result.
func (s *reconciliationService) AutoReconcile(ctx context.Context, koperasiID string, thresholdMinutes int, actor string) ([]dto.ReconcileResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stuck, err := s.FindStuckTransactions(ctx, koperasiID, thresholdMinutes)
	if err != nil {
		return nil, err
	}
	if len(stuck) == 0 {
		return []dto.ReconcileResult{}, nil
	}

	results := make([]dto.ReconcileResult, len(stuck))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, txn := range stuck {
		i, txn := i, txn
		g.Go(func() error {
			res := s.reconcileOne(gctx, koperasiID, txn, actor)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	// Worker funcs never return an error; failures land in their result.
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	logger.Info("Auto-reconcile pass complete",
		slog.String("koperasi_id", koperasiID),
		slog.Int("processed", len(results)),
		slog.Int("failed", failed))
	return results, nil
}

// reconcileOne resolves a single stuck transaction. All status changes go
// through the transaction state machine, so the row lock and expected-status
// guard apply here exactly as they do to user-driven transitions.
func (s *reconciliationService) reconcileOne(ctx context.Context, koperasiID string, txn domain.MarketplaceTransaction, actor string) dto.ReconcileResult {
	logger := middleware.GetLoggerFromCtx(ctx)

	if txn.Status.IsTerminal() {
		return dto.ReconcileResult{
			TransactionID: txn.TransactionID,
			Status:        txn.Status,
			Reason:        "already terminal, nothing to reconcile",
		}
	}

	confirmed := false
	reason := fmt.Sprintf("no fulfillment checker registered for entity type %q", txn.EntityType)
	if checker, ok := s.checkers[txn.EntityType]; ok {
		var err error
		confirmed, reason, err = checker.IsComplete(ctx, txn)
		if err != nil {
			logger.Error("Fulfillment check failed",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("error", err.Error()))
			return dto.ReconcileResult{
				TransactionID: txn.TransactionID,
				Status:        txn.Status,
				Error:         fmt.Sprintf("fulfillment check: %s", err.Error()),
			}
		}
	}

	var actions []domain.TransitionAction
	if confirmed {
		// Settle through the normal path; a journal_locked transaction is
		// fulfilled first so no state is skipped.
		if txn.Status == domain.StatusJournalLocked {
			actions = append(actions, domain.ActionFulfill)
		}
		actions = append(actions, domain.ActionSettle)
	} else {
		actions = append(actions, domain.ActionReverse)
	}

	current := txn.Status
	for _, action := range actions {
		req := dto.TransitionRequest{
			Action: action,
			Notes:  fmt.Sprintf("auto-reconcile: %s", reason),
		}
		updated, err := s.txnSvc.Transition(ctx, koperasiID, txn.TransactionID, req, actor)
		if err != nil {
			// A concurrent transition won the race; report what we saw rather
			// than failing the batch item.
			if errors.Is(err, apperrors.ErrStaleState) {
				return dto.ReconcileResult{
					TransactionID: txn.TransactionID,
					Status:        current,
					Reason:        "skipped, concurrent transition in progress",
				}
			}
			return dto.ReconcileResult{
				TransactionID: txn.TransactionID,
				Status:        current,
				Error:         err.Error(),
			}
		}
		current = updated.Status
	}

	logger.Info("Transaction reconciled",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(current)),
		slog.Bool("confirmed", confirmed))
	return dto.ReconcileResult{
		TransactionID: txn.TransactionID,
		Status:        current,
		Reason:        reason,
	}
}
