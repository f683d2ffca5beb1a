package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketplaceTransaction is the marketplace_transactions table row.
type MarketplaceTransaction struct {
	TransactionID    string          `db:"transaction_id"`
	KoperasiID       string          `db:"koperasi_id"`
	Type             string          `db:"type"`
	EntityType       string          `db:"entity_type"`
	EntityID         string          `db:"entity_id"`
	JournalID        *string         `db:"journal_id"`
	Amount           decimal.Decimal `db:"amount"`
	Status           string          `db:"status"`
	LastTransitionAt time.Time       `db:"last_transition_at"`
	AuditFields
}

// TransactionEvent is the marketplace_transaction_events table row.
// Rows are append-only.
type TransactionEvent struct {
	EventID       string    `db:"event_id"`
	TransactionID string    `db:"transaction_id"`
	Kind          string    `db:"kind"`
	FromStatus    string    `db:"from_status"`
	ToStatus      string    `db:"to_status"`
	Actor         string    `db:"actor"`
	Notes         string    `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
}
