package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kopranet/koperasi_ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	transactionRepo := newPgxTransactionRepository(dbPool)
	systemLogRepo := newPgxSystemLogRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		JournalRepo:     journalRepo,
		TransactionRepo: transactionRepo,
		SystemLogRepo:   systemLogRepo,
		ReportingRepo:   reportingRepo,
	}
}
