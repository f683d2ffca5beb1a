package services

import (
	"context"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// TransactionSvcFacade is the cross-business-unit transaction state machine.
// It exclusively owns status transitions on marketplace transactions.
type TransactionSvcFacade interface {
	// CreateTransaction records business intent; the wrapper starts initiated.
	CreateTransaction(ctx context.Context, koperasiID string, req dto.CreateTransactionRequest, actor string) (*domain.MarketplaceTransaction, error)

	// Transition applies one state machine action. Concurrent attempts on the
	// same transaction are serialized; a transition that no longer matches the
	// expected current state fails with apperrors.ErrStaleState.
	Transition(ctx context.Context, koperasiID, transactionID string, req dto.TransitionRequest, actor string) (*domain.MarketplaceTransaction, error)

	// GetTransaction retrieves a transaction with its event history.
	GetTransaction(ctx context.Context, koperasiID, transactionID string) (*domain.MarketplaceTransaction, []domain.TransactionEvent, error)
}
