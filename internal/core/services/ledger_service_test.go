package services_test

import (
	"context"
	"testing"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxns     *MockTransactionRepository
	mockAccounts *MockAccountRepository
	mockUsers    *MockUserRepository
	service      portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxns = new(MockTransactionRepository)
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockUsers = new(MockUserRepository)
	suite.service = services.NewLedgerService(suite.mockTxns, suite.mockAccounts, suite.mockUsers)
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestListUserTransactions() {
	ctx := context.Background()
	userID := uuid.NewString()
	entries := []domain.Transaction{
		{TransactionID: uuid.NewString(), UserID: userID, Amount: decimal.RequireFromString("10.00")},
	}

	suite.mockTxns.On("ListTransactionsByUser", ctx, userID, 20, "").Return(entries, "next-token", nil).Once()

	got, next, err := suite.service.ListUserTransactions(ctx, userID, 20, "")

	suite.Require().NoError(err)
	suite.Len(got, 1)
	suite.Equal("next-token", next)
}

func (suite *LedgerServiceTestSuite) TestListAccountTransactions_Owner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	account := ownedAccount(ownerID, domain.Checking, decimal.RequireFromString("100.00"))
	entries := []domain.Transaction{
		{TransactionID: uuid.NewString(), UserID: ownerID, AccountID: account.AccountID},
	}

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockTxns.On("ListTransactionsByAccount", ctx, account.AccountID, 50, 0).Return(entries, nil).Once()

	got, err := suite.service.ListAccountTransactions(ctx, ownerID, account.AccountID, 50, 0)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func (suite *LedgerServiceTestSuite) TestListAccountTransactions_StrangerSeesNotFound() {
	ctx := context.Background()
	callerID := uuid.NewString()
	account := ownedAccount(uuid.NewString(), domain.Checking, decimal.RequireFromString("100.00"))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockUsers.On("FindUserByID", ctx, callerID).Return(&domain.User{UserID: callerID}, nil).Once()

	_, err := suite.service.ListAccountTransactions(ctx, callerID, account.AccountID, 50, 0)

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockTxns.AssertNotCalled(suite.T(), "ListTransactionsByAccount", ctx, account.AccountID, 50, 0)
}

func (suite *LedgerServiceTestSuite) TestListAccountTransactions_AdminCanReadAny() {
	ctx := context.Background()
	adminID := uuid.NewString()
	account := ownedAccount(uuid.NewString(), domain.Savings, decimal.Zero)

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockUsers.On("FindUserByID", ctx, adminID).Return(&domain.User{UserID: adminID, IsAdmin: true}, nil).Once()
	suite.mockTxns.On("ListTransactionsByAccount", ctx, account.AccountID, 50, 0).Return([]domain.Transaction{}, nil).Once()

	got, err := suite.service.ListAccountTransactions(ctx, adminID, account.AccountID, 50, 0)

	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *LedgerServiceTestSuite) TestGetTransaction_Owner() {
	ctx := context.Background()
	userID := uuid.NewString()
	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: userID}

	suite.mockTxns.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	got, err := suite.service.GetTransaction(ctx, userID, txn.TransactionID)

	suite.Require().NoError(err)
	suite.Equal(txn.TransactionID, got.TransactionID)
}

func (suite *LedgerServiceTestSuite) TestGetTransaction_StrangerSeesNotFound() {
	ctx := context.Background()
	callerID := uuid.NewString()
	txn := &domain.Transaction{TransactionID: uuid.NewString(), UserID: uuid.NewString()}

	suite.mockTxns.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockUsers.On("FindUserByID", ctx, callerID).Return(&domain.User{UserID: callerID}, nil).Once()

	_, err := suite.service.GetTransaction(ctx, callerID, txn.TransactionID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
