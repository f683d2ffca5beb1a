package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	"github.com/kopranet/koperasi_ledger/internal/core/domain"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/core/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
)

// --- Test Suite Setup ---

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockTxnRepo *MockTransactionRepository
	mockTxnSvc  *MockTransactionService
	mockChecker *MockFulfillmentChecker
	service     portssvc.ReconciliationSvcFacade
	koperasiID  string
	actor       string
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockTxnSvc = new(MockTransactionService)
	suite.mockChecker = new(MockFulfillmentChecker)

	registry := portssvc.FulfillmentRegistry{
		domain.EntityRetail: suite.mockChecker,
	}
	// parallelism of one keeps call ordering deterministic under mocks
	suite.service = services.NewReconciliationService(suite.mockTxnRepo, suite.mockTxnSvc, registry, 1)

	suite.koperasiID = uuid.NewString()
	suite.actor = "system-reconciler"
}

func (suite *ReconciliationServiceTestSuite) stuckTransaction(status domain.TransactionStatus, entityType domain.EntityType) domain.MarketplaceTransaction {
	return domain.MarketplaceTransaction{
		TransactionID:    uuid.NewString(),
		KoperasiID:       suite.koperasiID,
		Type:             "retail_sale",
		EntityType:       entityType,
		EntityID:         "INV-100",
		Amount:           decimal.NewFromInt(50000),
		Status:           status,
		LastTransitionAt: time.Now().UTC().Add(-2 * time.Hour),
	}
}

func (suite *ReconciliationServiceTestSuite) withStatus(txn domain.MarketplaceTransaction, status domain.TransactionStatus) *domain.MarketplaceTransaction {
	txn.Status = status
	return &txn
}

// --- FindStuckTransactions ---

func (suite *ReconciliationServiceTestSuite) TestFindStuck_ThresholdValidation() {
	_, err := suite.service.FindStuckTransactions(context.Background(), suite.koperasiID, 0)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindStuckTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestFindStuck_CutoffInThePast() {
	ctx := context.Background()
	stuck := []domain.MarketplaceTransaction{suite.stuckTransaction(domain.StatusJournalLocked, domain.EntityRetail)}

	var cutoff time.Time
	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			cutoff = args.Get(2).(time.Time)
		}).Return(stuck, nil).Once()

	found, err := suite.service.FindStuckTransactions(ctx, suite.koperasiID, 30)

	suite.Require().NoError(err)
	suite.Len(found, 1)
	suite.WithinDuration(time.Now().UTC().Add(-30*time.Minute), cutoff, 5*time.Second)
}

// --- AutoReconcile ---

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_ConfirmedJournalLocked_FulfillsThenSettles() {
	ctx := context.Background()
	txn := suite.stuckTransaction(domain.StatusJournalLocked, domain.EntityRetail)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{txn}, nil).Once()
	suite.mockChecker.On("IsComplete", mock.Anything, txn).Return(true, "fulfillment confirmed by log abc", nil).Once()

	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, txn.TransactionID,
		mock.MatchedBy(func(req dto.TransitionRequest) bool { return req.Action == domain.ActionFulfill }), suite.actor).
		Return(suite.withStatus(txn, domain.StatusFulfilled), nil).Once()
	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, txn.TransactionID,
		mock.MatchedBy(func(req dto.TransitionRequest) bool { return req.Action == domain.ActionSettle }), suite.actor).
		Return(suite.withStatus(txn, domain.StatusSettled), nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(domain.StatusSettled, results[0].Status)
	suite.Empty(results[0].Error)
	suite.mockTxnSvc.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_ConfirmedFulfilled_SettlesDirectly() {
	ctx := context.Background()
	txn := suite.stuckTransaction(domain.StatusFulfilled, domain.EntityRetail)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{txn}, nil).Once()
	suite.mockChecker.On("IsComplete", mock.Anything, txn).Return(true, "transaction reached fulfilled", nil).Once()
	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, txn.TransactionID,
		mock.MatchedBy(func(req dto.TransitionRequest) bool { return req.Action == domain.ActionSettle }), suite.actor).
		Return(suite.withStatus(txn, domain.StatusSettled), nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(domain.StatusSettled, results[0].Status)
	suite.mockTxnSvc.AssertNumberOfCalls(suite.T(), "Transition", 1)
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_Unconfirmed_Reverses() {
	ctx := context.Background()
	txn := suite.stuckTransaction(domain.StatusJournalLocked, domain.EntityRetail)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{txn}, nil).Once()
	suite.mockChecker.On("IsComplete", mock.Anything, txn).Return(false, "no fulfillment confirmation for entity INV-100", nil).Once()
	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, txn.TransactionID,
		mock.MatchedBy(func(req dto.TransitionRequest) bool { return req.Action == domain.ActionReverse }), suite.actor).
		Return(suite.withStatus(txn, domain.StatusReversed), nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(domain.StatusReversed, results[0].Status)
	suite.Contains(results[0].Reason, "no fulfillment confirmation")
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_UnknownEntityType_Reverses() {
	ctx := context.Background()
	txn := suite.stuckTransaction(domain.StatusJournalLocked, domain.EntityPPOB)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{txn}, nil).Once()
	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, txn.TransactionID,
		mock.MatchedBy(func(req dto.TransitionRequest) bool { return req.Action == domain.ActionReverse }), suite.actor).
		Return(suite.withStatus(txn, domain.StatusReversed), nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(domain.StatusReversed, results[0].Status)
	suite.Contains(results[0].Reason, "no fulfillment checker registered")
	suite.mockChecker.AssertNotCalled(suite.T(), "IsComplete", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_CheckerError_IsolatedFailure() {
	ctx := context.Background()
	broken := suite.stuckTransaction(domain.StatusJournalLocked, domain.EntityRetail)
	healthy := suite.stuckTransaction(domain.StatusFulfilled, domain.EntityRetail)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{broken, healthy}, nil).Once()
	suite.mockChecker.On("IsComplete", mock.Anything, broken).Return(false, "", assert.AnError).Once()
	suite.mockChecker.On("IsComplete", mock.Anything, healthy).Return(true, "ok", nil).Once()
	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, healthy.TransactionID, mock.Anything, suite.actor).
		Return(suite.withStatus(healthy, domain.StatusSettled), nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.NotEmpty(results[0].Error)
	suite.Equal(broken.TransactionID, results[0].TransactionID)
	suite.Empty(results[1].Error)
	suite.Equal(domain.StatusSettled, results[1].Status)
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_ConcurrentTransition_Skipped() {
	ctx := context.Background()
	txn := suite.stuckTransaction(domain.StatusJournalLocked, domain.EntityRetail)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{txn}, nil).Once()
	suite.mockChecker.On("IsComplete", mock.Anything, txn).Return(false, "nothing confirmed", nil).Once()
	suite.mockTxnSvc.On("Transition", mock.Anything, suite.koperasiID, txn.TransactionID, mock.Anything, suite.actor).
		Return(nil, apperrors.ErrStaleState).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Empty(results[0].Error)
	suite.Contains(results[0].Reason, "concurrent transition")
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_NothingStuck() {
	ctx := context.Background()
	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).Return([]domain.MarketplaceTransaction{}, nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Empty(results)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestAutoReconcile_TerminalRowsAreNoOps() {
	ctx := context.Background()
	settled := suite.stuckTransaction(domain.StatusSettled, domain.EntityRetail)
	reversed := suite.stuckTransaction(domain.StatusReversed, domain.EntityRetail)

	suite.mockTxnRepo.On("FindStuckTransactions", ctx, suite.koperasiID, mock.Anything).
		Return([]domain.MarketplaceTransaction{settled, reversed}, nil).Once()

	results, err := suite.service.AutoReconcile(ctx, suite.koperasiID, 30, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	// A second pass over already-resolved rows must not reverse again.
	suite.Equal(domain.StatusSettled, results[0].Status)
	suite.Equal(domain.StatusReversed, results[1].Status)
	for _, res := range results {
		suite.Contains(res.Reason, "already terminal")
		suite.Empty(res.Error)
	}
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockChecker.AssertNotCalled(suite.T(), "IsComplete", mock.Anything, mock.Anything)
}

// --- System log fulfillment checker ---

type FulfillmentCheckerTestSuite struct {
	suite.Suite
	mockLogRepo *MockSystemLogRepository
	checker     portssvc.FulfillmentChecker
}

func (suite *FulfillmentCheckerTestSuite) SetupTest() {
	suite.mockLogRepo = new(MockSystemLogRepository)
	suite.checker = services.NewSystemLogFulfillmentChecker(suite.mockLogRepo)
}

func (suite *FulfillmentCheckerTestSuite) TestFulfilledStatus_ConfirmedWithoutLogs() {
	txn := domain.MarketplaceTransaction{
		TransactionID: uuid.NewString(),
		EntityID:      "INV-1",
		Status:        domain.StatusFulfilled,
	}

	ok, reason, err := suite.checker.IsComplete(context.Background(), txn)

	suite.Require().NoError(err)
	suite.True(ok)
	suite.NotEmpty(reason)
	suite.mockLogRepo.AssertNotCalled(suite.T(), "FindLogsByEntityID", mock.Anything, mock.Anything)
}

func (suite *FulfillmentCheckerTestSuite) TestPendingEntity_Unconfirmed() {
	txn := domain.MarketplaceTransaction{
		TransactionID: uuid.NewString(),
		EntityID:      domain.PendingEntityID,
		Status:        domain.StatusJournalLocked,
	}

	ok, _, err := suite.checker.IsComplete(context.Background(), txn)

	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *FulfillmentCheckerTestSuite) TestSuccessLog_Confirms() {
	txn := domain.MarketplaceTransaction{
		TransactionID: uuid.NewString(),
		EntityID:      "INV-1",
		Status:        domain.StatusJournalLocked,
	}
	logs := []domain.SystemLog{
		{LogID: uuid.NewString(), EntityID: "INV-1", ActionType: "OTHER", Status: domain.LogSuccess},
		{LogID: uuid.NewString(), EntityID: "INV-1", ActionType: services.ActionTypeFulfillment, Status: domain.LogFailure},
		{LogID: uuid.NewString(), EntityID: "INV-1", ActionType: services.ActionTypeFulfillment, Status: domain.LogSuccess},
	}
	suite.mockLogRepo.On("FindLogsByEntityID", mock.Anything, "INV-1").Return(logs, nil).Once()

	ok, reason, err := suite.checker.IsComplete(context.Background(), txn)

	suite.Require().NoError(err)
	suite.True(ok)
	suite.Contains(reason, logs[2].LogID)
}

func (suite *FulfillmentCheckerTestSuite) TestNoFulfillmentLog_Unconfirmed() {
	txn := domain.MarketplaceTransaction{
		TransactionID: uuid.NewString(),
		EntityID:      "INV-1",
		Status:        domain.StatusJournalLocked,
	}
	suite.mockLogRepo.On("FindLogsByEntityID", mock.Anything, "INV-1").Return([]domain.SystemLog{}, nil).Once()

	ok, _, err := suite.checker.IsComplete(context.Background(), txn)

	suite.Require().NoError(err)
	suite.False(ok)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func TestFulfillmentChecker(t *testing.T) {
	suite.Run(t, new(FulfillmentCheckerTestSuite))
}
