package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockFraudAlertRepository is a mock type for the FraudAlertRepositoryFacade interface
type MockFraudAlertRepository struct {
	mock.Mock
}

func (m *MockFraudAlertRepository) SaveAlert(ctx context.Context, alert domain.FraudAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockFraudAlertRepository) ResolveAlert(ctx context.Context, alertID string, adminID string, now time.Time) error {
	args := m.Called(ctx, alertID, adminID, now)
	return args.Error(0)
}

func (m *MockFraudAlertRepository) FindAlertByID(ctx context.Context, alertID string) (*domain.FraudAlert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FraudAlert), args.Error(1)
}

func (m *MockFraudAlertRepository) ListAlerts(ctx context.Context, status domain.FraudAlertStatus, limit int, offset int) ([]domain.FraudAlert, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudAlert), args.Error(1)
}

func (m *MockFraudAlertRepository) ListAlertsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.FraudAlert, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudAlert), args.Error(1)
}

// --- Test Suite Setup ---

type FraudServiceTestSuite struct {
	suite.Suite
	mockAlerts   *MockFraudAlertRepository
	mockTxns     *MockTransactionRepository
	mockNotifier *MockNotifier
	service      portssvc.FraudSvcFacade
}

func (suite *FraudServiceTestSuite) SetupTest() {
	suite.mockAlerts = new(MockFraudAlertRepository)
	suite.mockTxns = new(MockTransactionRepository)
	suite.mockNotifier = new(MockNotifier)
	cfg := &config.Config{
		FraudSingleTxnLimit:      decimal.NewFromInt(1000),
		FraudDailyLimit:          decimal.NewFromInt(5000),
		FraudHourlyLimit:         decimal.NewFromInt(2000),
		FraudDeviationMultiplier: decimal.NewFromInt(5),
		FraudRapidWindowTxns:     5,
		FraudRapidMaxAvgGap:      60 * time.Second,
	}
	suite.service = services.NewFraudService(suite.mockAlerts, suite.mockTxns, suite.mockNotifier, cfg)
}

// expectQuietHistory stubs the ledger reads so that no history-based rule fires.
func (suite *FraudServiceTestSuite) expectQuietHistory(userID string) {
	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil).Twice()
	suite.mockTxns.On("AverageAmountByUser", mock.Anything, userID).Return(decimal.Zero, int64(0), nil).Once()
	suite.mockTxns.On("FindRecentByUser", mock.Anything, userID, 5).Return([]domain.Transaction{}, nil).Once()
}

// --- Test Cases ---

func (suite *FraudServiceTestSuite) TestEvaluate_CleanTransaction() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.expectQuietHistory(userID)

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(100), domain.Deposit)

	suite.Require().NoError(err)
	suite.False(flagged)
	suite.mockAlerts.AssertNotCalled(suite.T(), "SaveAlert", mock.Anything, mock.Anything)
}

func (suite *FraudServiceTestSuite) TestEvaluate_AmountExactlyAtLimitNotFlagged() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.expectQuietHistory(userID)

	// The limit itself is allowed; only strictly greater amounts flag.
	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(1000), domain.Deposit)

	suite.Require().NoError(err)
	suite.False(flagged)
}

func (suite *FraudServiceTestSuite) TestEvaluate_LargeTransactionFlagged() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.expectQuietHistory(userID)

	var saved domain.FraudAlert
	suite.mockAlerts.On("SaveAlert", mock.Anything, mock.AnythingOfType("domain.FraudAlert")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.FraudAlert)
		}).Return(nil).Once()
	suite.mockNotifier.On("NotifyFraudAlert", mock.Anything, mock.AnythingOfType("services.FraudAlertEvent")).Return().Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(1001), domain.Withdrawal)

	suite.Require().NoError(err)
	suite.True(flagged)
	suite.Equal(domain.AlertLargeTransaction, saved.Type)
	suite.Equal(domain.AlertFlagged, saved.Status)
	suite.Equal(userID, saved.UserID)
	suite.mockAlerts.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *FraudServiceTestSuite) TestEvaluate_DailyLimitCountsProspectiveAmount() {
	ctx := context.Background()
	userID := uuid.NewString()

	// 4800 already moved today; 300 more crosses the 5000 daily limit even
	// though the amount alone is unremarkable.
	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.NewFromInt(4800), nil).Once()
	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil).Once()
	suite.mockTxns.On("AverageAmountByUser", mock.Anything, userID).Return(decimal.Zero, int64(0), nil).Once()
	suite.mockTxns.On("FindRecentByUser", mock.Anything, userID, 5).Return([]domain.Transaction{}, nil).Once()

	var saved domain.FraudAlert
	suite.mockAlerts.On("SaveAlert", mock.Anything, mock.AnythingOfType("domain.FraudAlert")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.FraudAlert)
		}).Return(nil).Once()
	suite.mockNotifier.On("NotifyFraudAlert", mock.Anything, mock.AnythingOfType("services.FraudAlertEvent")).Return().Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(300), domain.ExternalTransfer)

	suite.Require().NoError(err)
	suite.True(flagged)
	suite.Equal(domain.AlertDailyLimit, saved.Type)
}

func (suite *FraudServiceTestSuite) TestEvaluate_UnusualAmountNeedsHistory() {
	ctx := context.Background()
	userID := uuid.NewString()

	// No history at all: the deviation rule stays silent regardless of amount.
	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil).Twice()
	suite.mockTxns.On("AverageAmountByUser", mock.Anything, userID).Return(decimal.Zero, int64(0), nil).Once()
	suite.mockTxns.On("FindRecentByUser", mock.Anything, userID, 5).Return([]domain.Transaction{}, nil).Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(900), domain.Deposit)

	suite.Require().NoError(err)
	suite.False(flagged)
}

func (suite *FraudServiceTestSuite) TestEvaluate_UnusualAmountFlagged() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil).Twice()
	// Average 100 over 20 transactions; 501 is beyond 5x.
	suite.mockTxns.On("AverageAmountByUser", mock.Anything, userID).Return(decimal.NewFromInt(100), int64(20), nil).Once()
	suite.mockTxns.On("FindRecentByUser", mock.Anything, userID, 5).Return([]domain.Transaction{}, nil).Once()

	var saved domain.FraudAlert
	suite.mockAlerts.On("SaveAlert", mock.Anything, mock.AnythingOfType("domain.FraudAlert")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.FraudAlert)
		}).Return(nil).Once()
	suite.mockNotifier.On("NotifyFraudAlert", mock.Anything, mock.AnythingOfType("services.FraudAlertEvent")).Return().Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(501), domain.Withdrawal)

	suite.Require().NoError(err)
	suite.True(flagged)
	suite.Equal(domain.AlertUnusualAmount, saved.Type)
}

func (suite *FraudServiceTestSuite) TestEvaluate_RapidFireFlagged() {
	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Now().UTC()

	// Three transactions 10 seconds apart: average gap well under a minute.
	recent := []domain.Transaction{
		{TransactionID: uuid.NewString(), CreatedAt: now},
		{TransactionID: uuid.NewString(), CreatedAt: now.Add(-10 * time.Second)},
		{TransactionID: uuid.NewString(), CreatedAt: now.Add(-20 * time.Second)},
	}
	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil).Twice()
	suite.mockTxns.On("AverageAmountByUser", mock.Anything, userID).Return(decimal.Zero, int64(0), nil).Once()
	suite.mockTxns.On("FindRecentByUser", mock.Anything, userID, 5).Return(recent, nil).Once()

	var saved domain.FraudAlert
	suite.mockAlerts.On("SaveAlert", mock.Anything, mock.AnythingOfType("domain.FraudAlert")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.FraudAlert)
		}).Return(nil).Once()
	suite.mockNotifier.On("NotifyFraudAlert", mock.Anything, mock.AnythingOfType("services.FraudAlertEvent")).Return().Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(10), domain.Withdrawal)

	suite.Require().NoError(err)
	suite.True(flagged)
	suite.Equal(domain.AlertRapidFire, saved.Type)
}

func (suite *FraudServiceTestSuite) TestEvaluate_TwoRecentTransactionsNotRapid() {
	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Now().UTC()

	recent := []domain.Transaction{
		{TransactionID: uuid.NewString(), CreatedAt: now},
		{TransactionID: uuid.NewString(), CreatedAt: now.Add(-time.Second)},
	}
	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil).Twice()
	suite.mockTxns.On("AverageAmountByUser", mock.Anything, userID).Return(decimal.Zero, int64(0), nil).Once()
	suite.mockTxns.On("FindRecentByUser", mock.Anything, userID, 5).Return(recent, nil).Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(10), domain.Withdrawal)

	suite.Require().NoError(err)
	suite.False(flagged)
}

func (suite *FraudServiceTestSuite) TestEvaluate_FailsClosedOnLedgerError() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockTxns.On("SumAmountsByUserSince", mock.Anything, userID, mock.AnythingOfType("time.Time")).
		Return(decimal.Zero, errors.New("connection reset")).Once()

	var saved domain.FraudAlert
	suite.mockAlerts.On("SaveAlert", mock.Anything, mock.AnythingOfType("domain.FraudAlert")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.FraudAlert)
		}).Return(nil).Once()
	suite.mockNotifier.On("NotifyFraudAlert", mock.Anything, mock.AnythingOfType("services.FraudAlertEvent")).Return().Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(10), domain.Deposit)

	// The verdict is flagged, not an error: callers must not mistake an
	// evaluation failure for a clean result.
	suite.Require().NoError(err)
	suite.True(flagged)
	suite.Equal(domain.AlertCheckError, saved.Type)
}

func (suite *FraudServiceTestSuite) TestEvaluate_AlertPersistenceFailureDoesNotAbort() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.expectQuietHistory(userID)

	suite.mockAlerts.On("SaveAlert", mock.Anything, mock.AnythingOfType("domain.FraudAlert")).
		Return(errors.New("insert failed")).Once()

	flagged, err := suite.service.EvaluateTransaction(ctx, userID, decimal.NewFromInt(1001), domain.Deposit)

	suite.Require().NoError(err)
	suite.True(flagged)
	// No event published for an alert that was never recorded.
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyFraudAlert", mock.Anything, mock.Anything)
}

func (suite *FraudServiceTestSuite) TestResolveAlert_Passthrough() {
	ctx := context.Background()
	alertID := uuid.NewString()
	adminID := uuid.NewString()

	suite.mockAlerts.On("ResolveAlert", ctx, alertID, adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ResolveAlert(ctx, alertID, adminID)

	suite.Require().NoError(err)
	suite.mockAlerts.AssertExpectations(suite.T())
}

func TestFraudService(t *testing.T) {
	suite.Run(t, new(FraudServiceTestSuite))
}
