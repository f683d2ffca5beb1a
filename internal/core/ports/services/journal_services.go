package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// PreparedJournal is a fully validated journal ready to be persisted. The
// ledger poster is the only component that constructs one.
type PreparedJournal struct {
	Journal        domain.Journal
	Lines          []domain.JournalLine
	BalanceChanges map[string]decimal.Decimal
}

// JournalSvcFacade is the ledger poster: the single write path into the
// ledger. Entries commit atomically or not at all.
type JournalSvcFacade interface {
	// PostJournal validates and commits a balanced journal entry.
	PostJournal(ctx context.Context, koperasiID string, req dto.PostJournalRequest, actor string) (*domain.Journal, error)

	// PrepareJournal runs every posting precondition and returns the journal,
	// lines and balance deltas without writing. Callers that must commit the
	// entry together with other rows persist the result inside their own
	// transaction via SaveJournalInTx.
	PrepareJournal(ctx context.Context, koperasiID string, req dto.PostJournalRequest, actor string) (*PreparedJournal, error)

	// PrepareReversal builds the entry that exactly negates a posted journal:
	// swapped sides, same amounts, reference type tagged as a reversal.
	PrepareReversal(ctx context.Context, koperasiID, journalID, actor string) (*PreparedJournal, error)

	// SaveJournalInTx persists a prepared journal inside a caller-owned
	// transaction, linking reversal state when the entry reverses another.
	SaveJournalInTx(ctx context.Context, tx pgx.Tx, prepared *PreparedJournal) error

	// ReverseJournal posts the offsetting entry for a journal and marks the
	// original REVERSED, atomically.
	ReverseJournal(ctx context.Context, koperasiID, journalID, actor string) (*domain.Journal, error)

	// GetJournalByID retrieves a journal with its lines.
	GetJournalByID(ctx context.Context, koperasiID, journalID string) (*domain.Journal, error)
}
