package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/NovaBankHQ/nova_banking_app/internal/platform/config"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByOwnerAndType(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	args := m.Called(ctx, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindOwnerByAccountNumber(ctx context.Context, accountNumber string) (*domain.DirectoryEntry, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectoryEntry), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Transaction, string, error) {
	args := m.Called(ctx, userID, limit, pageToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.String(1), args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumAmountsByUserSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) AverageAmountByUser(ctx context.Context, userID string) (decimal.Decimal, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, transactions []domain.Transaction) error {
	args := m.Called(ctx, tx, transactions)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) ClaimWelcomeBonusInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, tx, userID, now)
	return args.Bool(0), args.Error(1)
}

// MockFraudService is a mock type for the FraudSvcFacade interface
type MockFraudService struct {
	mock.Mock
}

func (m *MockFraudService) EvaluateTransaction(ctx context.Context, userID string, amount decimal.Decimal, txnType domain.TransactionType) (bool, error) {
	args := m.Called(ctx, userID, amount, txnType)
	return args.Bool(0), args.Error(1)
}

func (m *MockFraudService) ListAlerts(ctx context.Context, status domain.FraudAlertStatus, limit int, offset int) ([]domain.FraudAlert, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudAlert), args.Error(1)
}

func (m *MockFraudService) ListAlertsForUser(ctx context.Context, userID string, limit int, offset int) ([]domain.FraudAlert, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FraudAlert), args.Error(1)
}

func (m *MockFraudService) ResolveAlert(ctx context.Context, alertID string, adminID string) error {
	args := m.Called(ctx, alertID, adminID)
	return args.Error(0)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyOperation(ctx context.Context, event portssvc.OperationEvent) {
	m.Called(ctx, event)
}

func (m *MockNotifier) NotifyFraudAlert(ctx context.Context, event portssvc.FraudAlertEvent) {
	m.Called(ctx, event)
}

func (m *MockNotifier) NotifyLoanDecision(ctx context.Context, event portssvc.LoanDecisionEvent) {
	m.Called(ctx, event)
}

// --- Test Suite Setup ---

type TransferServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountRepository
	mockTxns     *MockTransactionRepository
	mockUsers    *MockUserRepository
	mockFraud    *MockFraudService
	mockNotifier *MockNotifier
	cfg          *config.Config
	service      portssvc.TransferSvcFacade
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockTxns = new(MockTransactionRepository)
	suite.mockUsers = new(MockUserRepository)
	suite.mockFraud = new(MockFraudService)
	suite.mockNotifier = new(MockNotifier)
	suite.cfg = &config.Config{
		WelcomeBonusAmount: decimal.NewFromInt(500),
		CommitRetries:      3,
	}
	suite.service = services.NewTransferService(
		suite.mockAccounts,
		suite.mockTxns,
		suite.mockUsers,
		suite.mockFraud,
		suite.mockNotifier,
		suite.cfg,
	)
}

// ownedAccount builds an active account owned by userID.
func ownedAccount(userID string, accountType domain.AccountType, balance decimal.Decimal) *domain.Account {
	return &domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       userID,
		AccountNumber: "NB1234567890",
		Name:          "Checking",
		AccountType:   accountType,
		Balance:       balance,
		IsActive:      true,
	}
}

func (suite *TransferServiceTestSuite) expectCleanScreen(userID string, amount decimal.Decimal, txnType domain.TransactionType) {
	suite.mockFraud.On("EvaluateTransaction", mock.Anything, userID, amount, txnType).Return(false, nil).Once()
}

// --- Test Cases ---

func (suite *TransferServiceTestSuite) TestDeposit_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(100)
	account := ownedAccount(userID, domain.Checking, decimal.NewFromInt(50))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.expectCleanScreen(userID, amount, domain.Deposit)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{account.AccountID}).
		Return(map[string]domain.Account{account.AccountID: *account}, nil).Once()
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything,
		map[string]decimal.Decimal{account.AccountID: amount}, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	result, err := suite.service.Deposit(ctx, userID, dto.DepositRequest{
		AccountID:   account.AccountID,
		Amount:      amount,
		Description: "payroll",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.False(result.Flagged)
	suite.Equal(domain.Deposit, result.Transaction.Type)
	suite.Equal(domain.Credit, result.Transaction.Direction)
	suite.True(amount.Equal(result.Transaction.Amount))
	suite.Equal(account.AccountNumber, result.Transaction.ToAccount)
	suite.Equal(domain.TxnCompleted, result.Transaction.Status)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockTxns.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestDeposit_InvalidAmount() {
	ctx := context.Background()

	_, err := suite.service.Deposit(ctx, uuid.NewString(), dto.DepositRequest{
		AccountID: uuid.NewString(),
		Amount:    decimal.Zero,
	})

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockAccounts.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestDeposit_ForeignAccountMaskedAsNotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	account := ownedAccount(uuid.NewString(), domain.Checking, decimal.NewFromInt(50)) // different owner

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, err := suite.service.Deposit(ctx, userID, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    decimal.NewFromInt(10),
	})

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestWithdraw_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(30)
	account := ownedAccount(userID, domain.Checking, decimal.NewFromInt(100))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.expectCleanScreen(userID, amount, domain.Withdrawal)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{account.AccountID}).
		Return(map[string]domain.Account{account.AccountID: *account}, nil).Once()
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything,
		map[string]decimal.Decimal{account.AccountID: amount.Neg()}, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).Return(nil).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	result, err := suite.service.Withdraw(ctx, userID, dto.WithdrawRequest{
		AccountID: account.AccountID,
		Amount:    amount,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.Withdrawal, result.Transaction.Type)
	suite.Equal(domain.Debit, result.Transaction.Direction)
	suite.Equal(account.AccountNumber, result.Transaction.FromAccount)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestWithdraw_InsufficientBalance() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(150)
	account := ownedAccount(userID, domain.Checking, decimal.NewFromInt(100))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.expectCleanScreen(userID, amount, domain.Withdrawal)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{account.AccountID}).
		Return(map[string]domain.Account{account.AccountID: *account}, nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	_, err := suite.service.Withdraw(ctx, userID, dto.WithdrawRequest{
		AccountID: account.AccountID,
		Amount:    amount,
	})

	// The balance check happens against the locked row, before any write.
	suite.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockAccounts.AssertNotCalled(suite.T(), "UpdateAccountBalancesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxns.AssertNotCalled(suite.T(), "SaveTransactionsInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransferInternal_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(40)
	from := ownedAccount(userID, domain.Checking, decimal.NewFromInt(100))
	to := ownedAccount(userID, domain.Savings, decimal.NewFromInt(10))
	to.AccountNumber = "NB0987654321"

	suite.mockAccounts.On("FindAccountByID", ctx, from.AccountID).Return(from, nil).Once()
	suite.mockAccounts.On("FindAccountByID", ctx, to.AccountID).Return(to, nil).Once()
	suite.expectCleanScreen(userID, amount, domain.InternalTransfer)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{from.AccountID, to.AccountID}).
		Return(map[string]domain.Account{from.AccountID: *from, to.AccountID: *to}, nil).Once()
	// Conservation: the two deltas must cancel out exactly.
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything,
		mock.MatchedBy(func(deltas map[string]decimal.Decimal) bool {
			total := decimal.Zero
			for _, d := range deltas {
				total = total.Add(d)
			}
			return len(deltas) == 2 && total.IsZero()
		}), userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	var saved []domain.Transaction
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).([]domain.Transaction)
		}).Return(nil).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	result, err := suite.service.TransferInternal(ctx, userID, dto.InternalTransferRequest{
		FromAccountID: from.AccountID,
		ToAccountID:   to.AccountID,
		Amount:        amount,
	})

	suite.Require().NoError(err)
	suite.Require().Len(saved, 2)
	suite.Equal(domain.Debit, saved[0].Direction)
	suite.Equal(domain.Credit, saved[1].Direction)
	suite.Equal(saved[0].TransferRef, saved[1].TransferRef)
	suite.NotEmpty(saved[0].TransferRef)
	suite.Equal(from.AccountID, saved[0].AccountID)
	suite.Equal(to.AccountID, saved[1].AccountID)
	suite.Equal(domain.Debit, result.Transaction.Direction)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransferInternal_SameAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	_, err := suite.service.TransferInternal(ctx, uuid.NewString(), dto.InternalTransferRequest{
		FromAccountID: accountID,
		ToAccountID:   accountID,
		Amount:        decimal.NewFromInt(10),
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransferExternal_Success() {
	ctx := context.Background()
	senderID := uuid.NewString()
	receiverID := uuid.NewString()
	amount := decimal.NewFromInt(75)

	senderAccount := ownedAccount(senderID, domain.Checking, decimal.NewFromInt(200))
	receiverAccount := ownedAccount(receiverID, domain.Checking, decimal.NewFromInt(5))
	receiverAccount.AccountNumber = "NB5555555555"
	entry := &domain.DirectoryEntry{
		AccountNumber: receiverAccount.AccountNumber,
		OwnerID:       receiverID,
		DisplayName:   "Dana Receiver",
	}

	suite.mockAccounts.On("FindOwnerByAccountNumber", ctx, receiverAccount.AccountNumber).Return(entry, nil).Once()
	suite.mockAccounts.On("FindAccountByOwnerAndType", ctx, senderID, domain.Checking).Return(senderAccount, nil).Once()
	suite.mockAccounts.On("FindAccountByOwnerAndType", ctx, receiverID, domain.Checking).Return(receiverAccount, nil).Once()
	suite.expectCleanScreen(senderID, amount, domain.ExternalTransfer)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{senderAccount.AccountID, receiverAccount.AccountID}).
		Return(map[string]domain.Account{senderAccount.AccountID: *senderAccount, receiverAccount.AccountID: *receiverAccount}, nil).Once()
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything, mock.Anything, senderID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	var saved []domain.Transaction
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).([]domain.Transaction)
		}).Return(nil).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	result, err := suite.service.TransferExternal(ctx, senderID, dto.ExternalTransferRequest{
		ReceiverAccountNumber: receiverAccount.AccountNumber,
		Amount:                amount,
		Note:                  "rent",
	})

	suite.Require().NoError(err)
	suite.Require().Len(saved, 2)
	// Each party gets the entry in their own history.
	suite.Equal(senderID, saved[0].UserID)
	suite.Equal(receiverID, saved[1].UserID)
	suite.Equal(saved[0].TransferRef, saved[1].TransferRef)
	suite.Equal(domain.Debit, saved[0].Direction)
	suite.Equal(domain.Credit, saved[1].Direction)
	suite.Equal(senderID, result.Transaction.UserID)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransferExternal_ReceiverNotFound() {
	ctx := context.Background()

	suite.mockAccounts.On("FindOwnerByAccountNumber", ctx, "NB0000000000").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.TransferExternal(ctx, uuid.NewString(), dto.ExternalTransferRequest{
		ReceiverAccountNumber: "NB0000000000",
		Amount:                decimal.NewFromInt(10),
	})

	suite.Require().ErrorIs(err, apperrors.ErrReceiverNotFound)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransferExternal_SelfTransferRejected() {
	ctx := context.Background()
	senderID := uuid.NewString()
	account := ownedAccount(senderID, domain.Checking, decimal.NewFromInt(100))
	entry := &domain.DirectoryEntry{AccountNumber: account.AccountNumber, OwnerID: senderID, DisplayName: "Self"}

	suite.mockAccounts.On("FindOwnerByAccountNumber", ctx, account.AccountNumber).Return(entry, nil).Once()
	suite.mockAccounts.On("FindAccountByOwnerAndType", ctx, senderID, domain.Checking).Return(account, nil).Twice()

	_, err := suite.service.TransferExternal(ctx, senderID, dto.ExternalTransferRequest{
		ReceiverAccountNumber: account.AccountNumber,
		Amount:                decimal.NewFromInt(10),
	})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestDeposit_BlockedByFraudPolicy() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(999999)
	account := ownedAccount(userID, domain.Checking, decimal.Zero)

	suite.cfg.FraudBlocking = true
	suite.service = services.NewTransferService(
		suite.mockAccounts, suite.mockTxns, suite.mockUsers, suite.mockFraud, suite.mockNotifier, suite.cfg,
	)

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockFraud.On("EvaluateTransaction", mock.Anything, userID, amount, domain.Deposit).Return(true, nil).Once()
	suite.mockNotifier.On("NotifyOperation", ctx, mock.MatchedBy(func(e portssvc.OperationEvent) bool {
		return !e.Succeeded
	})).Return().Once()

	_, err := suite.service.Deposit(ctx, userID, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    amount,
	})

	suite.Require().ErrorIs(err, apperrors.ErrTransactionBlocked)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestDeposit_FlaggedButAdvisory() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(999999)
	account := ownedAccount(userID, domain.Checking, decimal.Zero)

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockFraud.On("EvaluateTransaction", mock.Anything, userID, amount, domain.Deposit).Return(true, nil).Once()
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{account.AccountID}).
		Return(map[string]domain.Account{account.AccountID: *account}, nil).Once()
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything, mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	result, err := suite.service.Deposit(ctx, userID, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    amount,
	})

	// Default mode flags but still commits.
	suite.Require().NoError(err)
	suite.True(result.Flagged)
}

func (suite *TransferServiceTestSuite) TestDeposit_CommitConflictExhaustsRetries() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(10)
	account := ownedAccount(userID, domain.Checking, decimal.Zero)

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.expectCleanScreen(userID, amount, domain.Deposit)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Times(3)
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{account.AccountID}).
		Return(map[string]domain.Account{account.AccountID: *account}, nil).Times(3)
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything, mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(nil).Times(3)
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.Anything).Return(nil).Times(3)
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(apperrors.ErrCommitConflict).Times(3)
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	_, err := suite.service.Deposit(ctx, userID, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    amount,
	})

	suite.Require().ErrorIs(err, apperrors.ErrCommitConflict)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestDeposit_CommitConflictThenSuccess() {
	ctx := context.Background()
	userID := uuid.NewString()
	amount := decimal.NewFromInt(10)
	account := ownedAccount(userID, domain.Checking, decimal.Zero)

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.expectCleanScreen(userID, amount, domain.Deposit)
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Twice()
	suite.mockAccounts.On("FindAccountsByIDsForUpdate", ctx, mock.Anything, []string{account.AccountID}).
		Return(map[string]domain.Account{account.AccountID: *account}, nil).Twice()
	suite.mockAccounts.On("UpdateAccountBalancesInTx", ctx, mock.Anything, mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(nil).Twice()
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.Anything).Return(nil).Twice()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(apperrors.ErrCommitConflict).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockNotifier.On("NotifyOperation", ctx, mock.AnythingOfType("services.OperationEvent")).Return().Once()

	result, err := suite.service.Deposit(ctx, userID, dto.DepositRequest{
		AccountID: account.AccountID,
		Amount:    amount,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	suite.mockAccounts.On("AccountNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

	var saved domain.Account
	suite.mockAccounts.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Account)
		}).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, ownerID, dto.CreateAccountRequest{
		Name:        "Vacation Fund",
		AccountType: domain.Savings,
	})

	suite.Require().NoError(err)
	suite.Equal(ownerID, account.OwnerID)
	suite.True(account.Balance.IsZero())
	suite.True(account.IsActive)
	suite.True(utils.IsValidAccountNumber(account.AccountNumber))
	suite.Equal(saved.AccountNumber, account.AccountNumber)
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCreateAccount_NumberCollisionRetries() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	suite.mockAccounts.On("AccountNumberExists", ctx, mock.AnythingOfType("string")).Return(true, nil).Twice()
	suite.mockAccounts.On("AccountNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockAccounts.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	_, err := suite.service.CreateAccount(ctx, ownerID, dto.CreateAccountRequest{
		Name:        "Checking",
		AccountType: domain.Checking,
	})

	suite.Require().NoError(err)
	suite.mockAccounts.AssertNumberOfCalls(suite.T(), "AccountNumberExists", 3)
}

func (suite *TransferServiceTestSuite) TestCreateAccount_DuplicateRaceSurfacesAsConflict() {
	ctx := context.Background()

	suite.mockAccounts.On("AccountNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	suite.mockAccounts.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(fmt.Errorf("insert: %w", apperrors.ErrDuplicate)).Once()

	_, err := suite.service.CreateAccount(ctx, uuid.NewString(), dto.CreateAccountRequest{
		Name:        "Checking",
		AccountType: domain.Checking,
	})

	suite.Require().ErrorIs(err, apperrors.ErrCommitConflict)
}

func (suite *TransferServiceTestSuite) TestEnsureWelcomeAccounts_FirstTime() {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, WelcomeBonusGranted: false}

	suite.mockUsers.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockAccounts.On("AccountNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Twice()
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockUsers.On("ClaimWelcomeBonusInTx", ctx, mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	var created []domain.Account
	suite.mockAccounts.On("SaveAccountInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) {
			created = append(created, args.Get(2).(domain.Account))
		}).Return(nil).Twice()

	var bonusEntries []domain.Transaction
	suite.mockTxns.On("SaveTransactionsInTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.Transaction")).
		Run(func(args mock.Arguments) {
			bonusEntries = args.Get(2).([]domain.Transaction)
		}).Return(nil).Once()
	suite.mockAccounts.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)

	accounts, err := suite.service.EnsureWelcomeAccounts(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(accounts, 2)
	suite.Equal(domain.Checking, accounts[0].AccountType)
	suite.True(decimal.NewFromInt(500).Equal(accounts[0].Balance))
	suite.Equal(domain.Savings, accounts[1].AccountType)
	suite.True(accounts[1].Balance.IsZero())
	suite.Require().Len(created, 2)
	suite.Require().Len(bonusEntries, 1)
	suite.Equal("Welcome bonus", bonusEntries[0].Description)
	suite.True(decimal.NewFromInt(500).Equal(bonusEntries[0].Amount))
	suite.Equal(accounts[0].AccountID, bonusEntries[0].AccountID)
	suite.mockUsers.AssertExpectations(suite.T())
	suite.mockAccounts.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestEnsureWelcomeAccounts_AlreadyGranted() {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, WelcomeBonusGranted: true}
	existing := []domain.Account{*ownedAccount(userID, domain.Checking, decimal.NewFromInt(500))}

	suite.mockUsers.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockAccounts.On("FindAccountsByOwner", ctx, userID).Return(existing, nil).Once()

	accounts, err := suite.service.EnsureWelcomeAccounts(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(existing, accounts)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockUsers.AssertNotCalled(suite.T(), "ClaimWelcomeBonusInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestEnsureWelcomeAccounts_LostClaimRace() {
	ctx := context.Background()
	userID := uuid.NewString()
	user := &domain.User{UserID: userID, WelcomeBonusGranted: false}
	existing := []domain.Account{*ownedAccount(userID, domain.Checking, decimal.NewFromInt(500))}

	suite.mockUsers.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockAccounts.On("AccountNumberExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Twice()
	suite.mockAccounts.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockUsers.On("ClaimWelcomeBonusInTx", ctx, mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	suite.mockAccounts.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockAccounts.On("FindAccountsByOwner", ctx, userID).Return(existing, nil).Once()

	accounts, err := suite.service.EnsureWelcomeAccounts(ctx, userID)

	// The conditional flag update decides the single winner; losers just read back.
	suite.Require().NoError(err)
	suite.Equal(existing, accounts)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccountInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccounts.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func TestTransferService(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
