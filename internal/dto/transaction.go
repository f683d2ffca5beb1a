package dto

import (
	"time"

	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records the business intent of an operational
// subsystem. The wrapper starts in status initiated; no money moves yet.
type CreateTransactionRequest struct {
	Type       string            `json:"type" binding:"required"`
	EntityType domain.EntityType `json:"entityType" binding:"required,oneof=retail ppob savings loan escrow"`
	EntityID   string            `json:"entityID"` // Defaults to the "pending" sentinel
	Amount     decimal.Decimal   `json:"amount" binding:"required"`
}

// TransitionRequest asks the state machine to advance a transaction.
// Lines are required for lock_journal and ignored otherwise; EntityID lets
// fulfill replace the "pending" sentinel once the operational row exists.
type TransitionRequest struct {
	Action   domain.TransitionAction `json:"action" binding:"required,oneof=lock_journal fulfill settle reverse"`
	Notes    string                  `json:"notes"`
	EntityID string                  `json:"entityID"`
	Journal  *PostJournalRequest     `json:"journal,omitempty"`
}

// TransactionEventResponse is one row of a transaction's history.
type TransactionEventResponse struct {
	Kind       domain.EventKind         `json:"kind"`
	FromStatus domain.TransactionStatus `json:"fromStatus"`
	ToStatus   domain.TransactionStatus `json:"toStatus"`
	Actor      string                   `json:"actor"`
	Notes      string                   `json:"notes,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
}

// TransactionResponse is the exposed transaction shape.
type TransactionResponse struct {
	TransactionID    string                     `json:"transactionID"`
	Type             string                     `json:"type"`
	EntityType       domain.EntityType          `json:"entityType"`
	EntityID         string                     `json:"entityID"`
	JournalID        *string                    `json:"journalID,omitempty"`
	Amount           decimal.Decimal            `json:"amount"`
	Status           domain.TransactionStatus   `json:"status"`
	LastTransitionAt time.Time                  `json:"lastTransitionAt"`
	Events           []TransactionEventResponse `json:"events,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its response shape.
func ToTransactionResponse(t *domain.MarketplaceTransaction, events []domain.TransactionEvent) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:    t.TransactionID,
		Type:             t.Type,
		EntityType:       t.EntityType,
		EntityID:         t.EntityID,
		JournalID:        t.JournalID,
		Amount:           t.Amount,
		Status:           t.Status,
		LastTransitionAt: t.LastTransitionAt,
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, TransactionEventResponse{
			Kind:       ev.Kind,
			FromStatus: ev.FromStatus,
			ToStatus:   ev.ToStatus,
			Actor:      ev.Actor,
			Notes:      ev.Notes,
			CreatedAt:  ev.CreatedAt,
		})
	}
	return resp
}
