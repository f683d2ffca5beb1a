package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
)

// auditService reconstructs audit trails from a single search term. Resolver
// strategies run in a fixed order and the first hit wins, so the same term
// always yields the same trail.
type auditService struct {
	txnRepo     portsrepo.TransactionReader
	journalRepo portsrepo.JournalReader
	logRepo     portsrepo.SystemLogRepository
}

// NewAuditService creates a new AuditSvcFacade.
func NewAuditService(txnRepo portsrepo.TransactionReader, journalRepo portsrepo.JournalReader, logRepo portsrepo.SystemLogRepository) portssvc.AuditSvcFacade {
	return &auditService{
		txnRepo:     txnRepo,
		journalRepo: journalRepo,
		logRepo:     logRepo,
	}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// resolver is one strategy in the cascade. A nil trail with a nil error means
// no match; the cascade moves on to the next strategy.
type resolver struct {
	name    string
	resolve func(ctx context.Context, koperasiID, term string) (*domain.AuditTrail, error)
}

// ResolveAuditTrail tries, in order: transaction id, journal business
// reference, operational entity id, then system-log entity id.
func (s *auditService) ResolveAuditTrail(ctx context.Context, koperasiID, searchTerm string) (*domain.AuditTrail, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if searchTerm == "" {
		return nil, fmt.Errorf("%w: search term is required", apperrors.ErrValidation)
	}

	strategies := []resolver{
		{name: "transaction_id", resolve: s.byTransactionID},
		{name: "journal_reference", resolve: s.byJournalReference},
		{name: "entity_id", resolve: s.byEntityID},
		{name: "system_log_entity", resolve: s.bySystemLogEntity},
	}

	for _, strategy := range strategies {
		trail, err := strategy.resolve(ctx, koperasiID, searchTerm)
		if err != nil {
			logger.Error("Audit resolver failed",
				slog.String("strategy", strategy.name),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("audit resolver %s: %w", strategy.name, err)
		}
		if trail != nil {
			trail.MatchedBy = strategy.name
			logger.Info("Audit trail resolved",
				slog.String("strategy", strategy.name),
				slog.Int("journals", len(trail.Journals)),
				slog.Int("logs", len(trail.Logs)))
			return trail, nil
		}
	}

	return nil, fmt.Errorf("%w: no audit trail matches %q", apperrors.ErrNotFound, searchTerm)
}

// byTransactionID matches the term against a marketplace transaction id and
// expands to its journal (with lines) and correlated logs.
func (s *auditService) byTransactionID(ctx context.Context, koperasiID, term string) (*domain.AuditTrail, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, koperasiID, term)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.expandTransaction(ctx, koperasiID, txn)
}

// byJournalReference matches the term against journal business references
// (invoice numbers and the like), pulling reversals along with originals.
func (s *auditService) byJournalReference(ctx context.Context, koperasiID, term string) (*domain.AuditTrail, error) {
	journals, err := s.journalRepo.FindJournalsByReferenceID(ctx, koperasiID, term)
	if err != nil {
		return nil, err
	}
	if len(journals) == 0 {
		return nil, nil
	}
	if err := s.attachLines(ctx, journals); err != nil {
		return nil, err
	}

	trail := &domain.AuditTrail{Journals: journals}

	// Opportunistically link the owning transaction through the first journal.
	txn, err := s.txnRepo.FindTransactionByJournalID(ctx, koperasiID, journals[0].JournalID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if txn != nil {
		trail.Transaction = txn
		logs, err := s.logRepo.FindLogsByEntityID(ctx, txn.TransactionID)
		if err != nil {
			return nil, err
		}
		trail.Logs = logs
	}
	return trail, nil
}

// byEntityID matches the term against the operational record id carried by
// marketplace transactions.
func (s *auditService) byEntityID(ctx context.Context, koperasiID, term string) (*domain.AuditTrail, error) {
	txns, err := s.txnRepo.FindTransactionsByEntityID(ctx, koperasiID, term)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, nil
	}
	// Deterministic pick: repositories return oldest first.
	return s.expandTransaction(ctx, koperasiID, &txns[0])
}

// bySystemLogEntity is the last resort: logs correlated to the term even when
// no transaction or journal references it.
func (s *auditService) bySystemLogEntity(ctx context.Context, koperasiID, term string) (*domain.AuditTrail, error) {
	logs, err := s.logRepo.FindLogsByEntityID(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, nil
	}
	return &domain.AuditTrail{Logs: logs}, nil
}

// expandTransaction builds the full trail around a matched transaction.
func (s *auditService) expandTransaction(ctx context.Context, koperasiID string, txn *domain.MarketplaceTransaction) (*domain.AuditTrail, error) {
	trail := &domain.AuditTrail{Transaction: txn}

	if txn.JournalID != nil {
		journal, err := s.journalRepo.FindJournalByID(ctx, *txn.JournalID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if journal != nil && journal.KoperasiID == koperasiID {
			// Pull the whole reference family so reversals appear alongside
			// the original posting.
			journals, err := s.journalRepo.FindJournalsByReferenceID(ctx, koperasiID, journal.ReferenceID)
			if err != nil {
				return nil, err
			}
			if len(journals) == 0 {
				journals = []domain.Journal{*journal}
			}
			if err := s.attachLines(ctx, journals); err != nil {
				return nil, err
			}
			trail.Journals = journals
		}
	}

	logs, err := s.logRepo.FindLogsByEntityID(ctx, txn.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn.EntityID != domain.PendingEntityID && txn.EntityID != txn.TransactionID {
		entityLogs, err := s.logRepo.FindLogsByEntityID(ctx, txn.EntityID)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entityLogs...)
	}
	trail.Logs = logs
	return trail, nil
}

func (s *auditService) attachLines(ctx context.Context, journals []domain.Journal) error {
	for i := range journals {
		lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
		if err != nil {
			return err
		}
		journals[i].Lines = lines
	}
	return nil
}
