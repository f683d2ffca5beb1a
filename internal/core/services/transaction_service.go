package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
)

const actionTypeTransition = "TRANSACTION_TRANSITION"

// transactionService is the cross-business-unit transaction state machine. All
// status changes funnel through Transition, which serializes concurrent
// attempts with a row lock and an expected-status guard.
type transactionService struct {
	txnRepo    portsrepo.TransactionRepositoryWithTx
	journalSvc portssvc.JournalSvcFacade
	logRepo    portsrepo.SystemLogRepository
}

// NewTransactionService creates a new TransactionSvcFacade.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryWithTx, journalSvc portssvc.JournalSvcFacade, logRepo portsrepo.SystemLogRepository) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:    txnRepo,
		journalSvc: journalSvc,
		logRepo:    logRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// eventKindFor maps a target status to its history event kind.
func eventKindFor(status domain.TransactionStatus) domain.EventKind {
	switch status {
	case domain.StatusJournalLocked:
		return domain.EventJournalLocked
	case domain.StatusFulfilled:
		return domain.EventFulfilled
	case domain.StatusSettled:
		return domain.EventSettled
	case domain.StatusReversed:
		return domain.EventReversed
	default:
		return domain.EventInitiated
	}
}

// CreateTransaction records business intent. The wrapper starts in status
// initiated with no linked journal; the EntityID defaults to the pending
// sentinel when the owning operational record does not exist yet.
func (s *transactionService) CreateTransaction(ctx context.Context, koperasiID string, req dto.CreateTransactionRequest, actor string) (*domain.MarketplaceTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}

	entityID := req.EntityID
	if entityID == "" {
		entityID = domain.PendingEntityID
	}

	now := time.Now().UTC()
	txn := domain.MarketplaceTransaction{
		TransactionID:    uuid.NewString(),
		KoperasiID:       koperasiID,
		Type:             req.Type,
		EntityType:       req.EntityType,
		EntityID:         entityID,
		Amount:           req.Amount,
		Status:           domain.StatusInitiated,
		LastTransitionAt: now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	event := domain.TransactionEvent{
		EventID:       uuid.NewString(),
		TransactionID: txn.TransactionID,
		Kind:          domain.EventInitiated,
		FromStatus:    domain.StatusInitiated,
		ToStatus:      domain.StatusInitiated,
		Actor:         actor,
		CreatedAt:     now,
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, event); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction initiated",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", txn.Type),
		slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// Transition applies one state machine action inside a single database
// transaction: the row is locked, the target status resolved, side effects
// (journal posting or reversal) committed alongside the status flip, and the
// history event appended. A concurrent transition that raced past this one
// surfaces as apperrors.ErrStaleState.
func (s *transactionService) Transition(ctx context.Context, koperasiID, transactionID string, req dto.TransitionRequest, actor string) (*domain.MarketplaceTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transitionInTx(ctx, koperasiID, transactionID, req, actor)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Log rows are keyed by transaction id; an id that never existed
		// gets no append-only record.
		return nil, err
	}

	// Write-once observability record, outside the transaction so a log
	// failure never rolls back a committed transition.
	logStatus := domain.LogSuccess
	detail := fmt.Sprintf("transition %s applied to transaction %s", req.Action, transactionID)
	if err != nil {
		logStatus = domain.LogFailure
		detail = fmt.Sprintf("transition %s on transaction %s failed: %s", req.Action, transactionID, err.Error())
	}
	entry := domain.SystemLog{
		LogID:        uuid.NewString(),
		EntityID:     transactionID,
		ActionType:   actionTypeTransition,
		ActionDetail: detail,
		Status:       logStatus,
		Metadata:     map[string]string{"action": string(req.Action), "actor": actor},
		CreatedAt:    time.Now().UTC(),
	}
	if logErr := s.logRepo.SaveLog(ctx, entry); logErr != nil {
		logger.Error("Failed to persist system log", slog.String("error", logErr.Error()), slog.String("transaction_id", transactionID))
	}

	return txn, err
}

func (s *transactionService) transitionInTx(ctx context.Context, koperasiID, transactionID string, req dto.TransitionRequest, actor string) (*domain.MarketplaceTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	txn, err := s.txnRepo.FindTransactionByIDForUpdate(ctx, tx, koperasiID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}

	fromStatus := txn.Status
	next, err := domain.NextStatus(fromStatus, req.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, err.Error())
	}

	now := time.Now().UTC()
	journalID := txn.JournalID
	entityID := txn.EntityID
	notes := req.Notes

	switch req.Action {
	case domain.ActionLockJournal:
		if req.Journal == nil {
			return nil, fmt.Errorf("%w: lock_journal requires a journal entry", apperrors.ErrValidation)
		}
		prepared, err := s.journalSvc.PrepareJournal(ctx, koperasiID, *req.Journal, actor)
		if err != nil {
			return nil, err
		}
		if !prepared.Journal.Amount.Equal(txn.Amount) {
			return nil, fmt.Errorf("%w: journal amount %s does not match transaction amount %s",
				apperrors.ErrValidation, prepared.Journal.Amount.String(), txn.Amount.String())
		}
		if err := s.journalSvc.SaveJournalInTx(ctx, tx, prepared); err != nil {
			return nil, err
		}
		journalID = &prepared.Journal.JournalID

	case domain.ActionFulfill:
		if req.EntityID != "" {
			entityID = req.EntityID
		}

	case domain.ActionSettle:
		// No side effects beyond the status flip.

	case domain.ActionReverse:
		if txn.JournalID != nil {
			prepared, err := s.journalSvc.PrepareReversal(ctx, koperasiID, *txn.JournalID, actor)
			if err != nil {
				return nil, err
			}
			if err := s.journalSvc.SaveJournalInTx(ctx, tx, prepared); err != nil {
				return nil, err
			}
			if notes == "" {
				notes = fmt.Sprintf("reversed by journal %s", prepared.Journal.JournalID)
			}
		}
	}

	if err := s.txnRepo.UpdateTransactionStatusInTx(ctx, tx, transactionID, fromStatus, next, journalID, entityID, actor, now); err != nil {
		return nil, err
	}

	event := domain.TransactionEvent{
		EventID:       uuid.NewString(),
		TransactionID: transactionID,
		Kind:          eventKindFor(next),
		FromStatus:    fromStatus,
		ToStatus:      next,
		Actor:         actor,
		Notes:         notes,
		CreatedAt:     now,
	}
	if err := s.txnRepo.AppendEventInTx(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to append transaction event: %w", err)
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn.Status = next
	txn.JournalID = journalID
	txn.EntityID = entityID
	txn.LastTransitionAt = now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor

	logger.Info("Transaction transitioned",
		slog.String("transaction_id", transactionID),
		slog.String("action", string(req.Action)),
		slog.String("from", string(fromStatus)),
		slog.String("to", string(next)))
	return txn, nil
}

// GetTransaction retrieves a transaction with its event history.
func (s *transactionService) GetTransaction(ctx context.Context, koperasiID, transactionID string) (*domain.MarketplaceTransaction, []domain.TransactionEvent, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, koperasiID, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	events, err := s.txnRepo.ListEventsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events for transaction %s: %w", transactionID, err)
	}
	return txn, events, nil
}
