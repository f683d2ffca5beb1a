package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a marketplace transaction.
type TransactionStatus string

const (
	StatusInitiated     TransactionStatus = "initiated"      // Business intent recorded, no money moved
	StatusJournalLocked TransactionStatus = "journal_locked" // Ledger entry posted and linked
	StatusFulfilled     TransactionStatus = "fulfilled"      // Operational side effect completed
	StatusSettled       TransactionStatus = "settled"        // Terminal success
	StatusReversed      TransactionStatus = "reversed"       // Terminal rollback with offsetting entry
)

// TransitionAction is a requested state machine transition.
type TransitionAction string

const (
	ActionLockJournal TransitionAction = "lock_journal"
	ActionFulfill     TransitionAction = "fulfill"
	ActionSettle      TransitionAction = "settle"
	ActionReverse     TransitionAction = "reverse"
)

// EntityType identifies the operational subsystem that owns a transaction.
type EntityType string

const (
	EntityRetail  EntityType = "retail"
	EntityPPOB    EntityType = "ppob"
	EntitySavings EntityType = "savings"
	EntityLoan    EntityType = "loan"
	EntityEscrow  EntityType = "escrow"
)

// PendingEntityID is the sentinel EntityID used before the owning operational
// record exists.
const PendingEntityID = "pending"

// MarketplaceTransaction wraps a cross-domain business transaction and tracks
// its lifecycle independent of which operational subsystem originated it.
// Rows are never hard-deleted; reversed transactions remain as audit records.
type MarketplaceTransaction struct {
	TransactionID    string            `json:"transactionID"` // Primary key (UUID)
	KoperasiID       string            `json:"koperasiID"`
	Type             string            `json:"type"`       // retail_sale, ppob_purchase, savings_deposit, ...
	EntityType       EntityType        `json:"entityType"` // Owning subsystem
	EntityID         string            `json:"entityID"`   // FK into the owning operational table, or "pending"
	JournalID        *string           `json:"journalID,omitempty"`
	Amount           decimal.Decimal   `json:"amount"`
	Status           TransactionStatus `json:"status"`
	LastTransitionAt time.Time         `json:"lastTransitionAt"`
	AuditFields
}

// IsTerminal reports whether s admits no further transitions.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusSettled || s == StatusReversed
}

// transitions maps each action to its required source status. Reverse is
// special-cased in NextStatus because it is valid from any non-terminal state.
var transitions = map[TransitionAction]struct {
	from TransactionStatus
	to   TransactionStatus
}{
	ActionLockJournal: {StatusInitiated, StatusJournalLocked},
	ActionFulfill:     {StatusJournalLocked, StatusFulfilled},
	ActionSettle:      {StatusFulfilled, StatusSettled},
}

// NextStatus resolves the target status for applying action to a transaction
// currently in the given status. Forward transitions never skip a state and
// terminal states admit nothing.
func NextStatus(current TransactionStatus, action TransitionAction) (TransactionStatus, error) {
	if current.IsTerminal() {
		return "", fmt.Errorf("status %q is terminal and cannot transition via %q", current, action)
	}
	if action == ActionReverse {
		return StatusReversed, nil
	}
	rule, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("unknown transition action %q", action)
	}
	if rule.from != current {
		return "", fmt.Errorf("action %q requires status %q, transaction is %q", action, rule.from, current)
	}
	return rule.to, nil
}

// EventKind tags an entry in a transaction's append-only event history.
type EventKind string

const (
	EventInitiated     EventKind = "initiated"
	EventJournalLocked EventKind = "journal_locked"
	EventFulfilled     EventKind = "fulfilled"
	EventSettled       EventKind = "settled"
	EventReversed      EventKind = "reversed"
	EventReconciled    EventKind = "reconciled"
)

// TransactionEvent is one immutable row in a transaction's history. The event
// list replaces mutable workflow-metadata blobs so the history stays
// structurally typed and queryable.
type TransactionEvent struct {
	EventID       string            `json:"eventID"` // Primary key (UUID)
	TransactionID string            `json:"transactionID"`
	Kind          EventKind         `json:"kind"`
	FromStatus    TransactionStatus `json:"fromStatus"`
	ToStatus      TransactionStatus `json:"toStatus"`
	Actor         string            `json:"actor"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"createdAt"`
}
