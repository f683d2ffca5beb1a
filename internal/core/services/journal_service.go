package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
	"github.com/kopranet/koperasi_ledger/internal/utils/accounting"
)

var (
	// ErrMinAccounts rejects entries that shuffle value within one account.
	ErrMinAccounts = errors.New("journal entry must affect at least two different accounts")
	// ErrDescriptionMissing rejects entries without a description.
	ErrDescriptionMissing = errors.New("journal description is required")
)

// journalService is the ledger poster: the single write path into the ledger.
type journalService struct {
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepositoryWithTx
}

// NewJournalService creates a new JournalSvcFacade.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// PrepareJournal runs every posting precondition and constructs the journal,
// its lines, and the per-account balance deltas. Nothing is written.
func (s *journalService) PrepareJournal(ctx context.Context, koperasiID string, req dto.PostJournalRequest, actor string) (*portssvc.PreparedJournal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrDescriptionMissing)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	accountSet := make(map[string]struct{}, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			JournalID: journalID,
			AccountID: lineReq.AccountID,
			Debit:     lineReq.Debit,
			Credit:    lineReq.Credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
		if _, seen := accountSet[lineReq.AccountID]; !seen {
			accountSet[lineReq.AccountID] = struct{}{}
			accountIDs = append(accountIDs, lineReq.AccountID)
		}
	}

	if len(accountSet) < 2 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMinAccounts)
	}

	// Balance invariant: >= 2 one-sided lines, debits == credits exactly.
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, err
	}

	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, koperasiID, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting", slog.String("error", err.Error()), slog.String("koperasi_id", koperasiID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range accountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s does not exist for this koperasi", apperrors.ErrInvalidAccount, id)
		}
		if acc.IsHeader {
			return nil, fmt.Errorf("%w: account %s (%s) is a header account and cannot be posted to", apperrors.ErrInvalidAccount, id, acc.Code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrInvalidAccount, id, acc.Code)
		}
	}

	balanceChanges := make(map[string]decimal.Decimal, len(accountSet))
	for _, line := range lines {
		acc := accountsMap[line.AccountID]
		signed := accounting.SignedAmount(line, acc.NormalBalance)
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(signed)
	}

	journal := domain.Journal{
		JournalID:     journalID,
		KoperasiID:    koperasiID,
		JournalDate:   req.JournalDate,
		Description:   req.Description,
		ReferenceID:   req.ReferenceID,
		ReferenceType: req.ReferenceType,
		BusinessUnit:  req.BusinessUnit,
		Status:        domain.Posted,
		Amount:        accounting.EntryAmount(lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	return &portssvc.PreparedJournal{
		Journal:        journal,
		Lines:          lines,
		BalanceChanges: balanceChanges,
	}, nil
}

// PostJournal validates and commits a balanced journal entry. The entry and
// all its lines persist atomically or not at all.
func (s *journalService) PostJournal(ctx context.Context, koperasiID string, req dto.PostJournalRequest, actor string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	prepared, err := s.PrepareJournal(ctx, koperasiID, req, actor)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, prepared.Journal, prepared.Lines, prepared.BalanceChanges); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("journal_id", prepared.Journal.JournalID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal posted",
		slog.String("journal_id", prepared.Journal.JournalID),
		slog.String("reference_id", prepared.Journal.ReferenceID),
		slog.String("amount", prepared.Journal.Amount.String()))
	journal := prepared.Journal
	journal.Lines = prepared.Lines
	return &journal, nil
}

// PrepareReversal builds the entry that exactly negates a posted journal:
// lines with swapped sides, the same amounts, the reference type tagged as a
// reversal, and the balance deltas negated.
func (s *journalService) PrepareReversal(ctx context.Context, koperasiID, journalID, actor string) (*portssvc.PreparedJournal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve journal %s: %w", journalID, err)
	}
	if original.KoperasiID != koperasiID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal %s status is %s, expected POSTED", apperrors.ErrConflict, journalID, original.Status)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: journal %s is itself a reversal", apperrors.ErrConflict, journalID)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch lines for reversal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve journal lines: %w", err)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	lines := make([]domain.JournalLine, len(originalLines))
	accountIDs := make([]string, 0, len(originalLines))
	for i, orig := range originalLines {
		swapped := orig.Swapped()
		swapped.LineID = uuid.NewString()
		swapped.JournalID = reversalID
		swapped.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		}
		lines[i] = swapped
		accountIDs = append(accountIDs, orig.AccountID)
	}

	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, koperasiID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, line := range lines {
		acc, found := accountsMap[line.AccountID]
		if !found {
			return nil, fmt.Errorf("%w: account %s referenced by journal %s", apperrors.ErrInvalidAccount, line.AccountID, journalID)
		}
		signed := accounting.SignedAmount(line, acc.NormalBalance)
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(signed)
	}

	reversal := domain.Journal{
		JournalID:         reversalID,
		KoperasiID:        koperasiID,
		JournalDate:       original.JournalDate,
		Description:       fmt.Sprintf("Reversal of: %s", original.Description),
		ReferenceID:       original.ReferenceID,
		ReferenceType:     original.ReferenceType.WithReversalSuffix(),
		BusinessUnit:      original.BusinessUnit,
		Status:            domain.Posted,
		OriginalJournalID: &original.JournalID,
		Amount:            original.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	return &portssvc.PreparedJournal{
		Journal:        reversal,
		Lines:          lines,
		BalanceChanges: balanceChanges,
	}, nil
}

// SaveJournalInTx persists a prepared journal inside a caller-owned
// transaction. When the journal reverses another, the original is marked
// REVERSED and linked in the same transaction.
func (s *journalService) SaveJournalInTx(ctx context.Context, tx pgx.Tx, prepared *portssvc.PreparedJournal) error {
	if err := s.journalRepo.SaveJournalInTx(ctx, tx, prepared.Journal, prepared.Lines, prepared.BalanceChanges); err != nil {
		return fmt.Errorf("failed to save journal %s: %w", prepared.Journal.JournalID, err)
	}
	if prepared.Journal.OriginalJournalID != nil {
		if err := s.journalRepo.UpdateJournalStatusAndLinksInTx(ctx, tx,
			*prepared.Journal.OriginalJournalID, domain.Reversed,
			&prepared.Journal.JournalID, prepared.Journal.CreatedBy, prepared.Journal.CreatedAt); err != nil {
			return fmt.Errorf("failed to mark journal %s reversed: %w", *prepared.Journal.OriginalJournalID, err)
		}
	}
	return nil
}

// ReverseJournal posts the offsetting entry for a journal and marks the
// original REVERSED, all inside one database transaction.
func (s *journalService) ReverseJournal(ctx context.Context, koperasiID, journalID, actor string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	prepared, err := s.PrepareReversal(ctx, koperasiID, journalID, actor)
	if err != nil {
		return nil, err
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.journalRepo.Rollback(ctx, tx)

	if err := s.SaveJournalInTx(ctx, tx, prepared); err != nil {
		logger.Error("Failed to save reversing journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Journal reversed",
		slog.String("journal_id", journalID),
		slog.String("reversing_journal_id", prepared.Journal.JournalID))
	journal := prepared.Journal
	journal.Lines = prepared.Lines
	return &journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, koperasiID, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	if journal.KoperasiID != koperasiID {
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, err)
	}
	journal.Lines = lines
	return journal, nil
}
