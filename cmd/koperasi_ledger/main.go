package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kopranet/koperasi_ledger/internal/core/services"
	"github.com/kopranet/koperasi_ledger/internal/handlers"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
	"github.com/kopranet/koperasi_ledger/internal/platform/config"
	"github.com/kopranet/koperasi_ledger/internal/repositories/database/pgsql"
	"github.com/kopranet/koperasi_ledger/pkg/database"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
)

// @title Koperasi Ledger API
// @version 1.0
// @description Ledger-first accounting engine for koperasi marketplace operations.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.AutoMigrate {
		if err := runMigrations(logger, cfg); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Global per-IP rate limit
	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimitFormatted); err == nil {
		r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
	} else {
		logger.Warn("Invalid RATE_LIMIT format, rate limiting disabled", slog.String("value", cfg.RateLimitFormatted))
	}

	serviceContainer := buildServices(dbPool, cfg)
	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories into the service layer.
func buildServices(dbPool *pgxpool.Pool, cfg *config.Config) *portssvc.ServiceContainer {
	repos := pgsql.NewRepositoryProvider(dbPool)

	accountSvc := services.NewAccountService(repos.AccountRepo)
	journalSvc := services.NewJournalService(repos.JournalRepo, accountSvc)
	transactionSvc := services.NewTransactionService(repos.TransactionRepo, journalSvc, repos.SystemLogRepo)
	checkers := services.NewDefaultFulfillmentRegistry(repos.SystemLogRepo)
	reconciliationSvc := services.NewReconciliationService(repos.TransactionRepo, transactionSvc, checkers, cfg.ReconcileParallelism)
	reportingSvc := services.NewReportingService(repos.ReportingRepo, repos.AccountRepo)
	auditSvc := services.NewAuditService(repos.TransactionRepo, repos.JournalRepo, repos.SystemLogRepo)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Journal:        journalSvc,
		Transaction:    transactionSvc,
		Reconciliation: reconciliationSvc,
		Reporting:      reportingSvc,
		Audit:          auditSvc,
	}
}

// runMigrations applies all pending up migrations using a short-lived
// database/sql connection.
func runMigrations(logger *slog.Logger, cfg *config.Config) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
