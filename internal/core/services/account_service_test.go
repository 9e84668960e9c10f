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

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccounts *MockAccountRepository
	mockUsers    *MockUserRepository
	service      portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccounts = new(MockAccountRepository)
	suite.mockUsers = new(MockUserRepository)
	suite.service = services.NewAccountService(suite.mockAccounts, suite.mockUsers)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestGetAccountByID_Owner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	account := ownedAccount(ownerID, domain.Checking, decimal.RequireFromString("250.00"))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	got, err := suite.service.GetAccountByID(ctx, ownerID, account.AccountID)

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, got.AccountID)
	// Ownership satisfied, no admin lookup needed.
	suite.mockUsers.AssertNotCalled(suite.T(), "FindUserByID", ctx, ownerID)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_StrangerSeesNotFound() {
	ctx := context.Background()
	callerID := uuid.NewString()
	account := ownedAccount(uuid.NewString(), domain.Checking, decimal.RequireFromString("250.00"))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockUsers.On("FindUserByID", ctx, callerID).Return(&domain.User{UserID: callerID}, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, callerID, account.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_AdminCanReadAny() {
	ctx := context.Background()
	adminID := uuid.NewString()
	account := ownedAccount(uuid.NewString(), domain.Savings, decimal.RequireFromString("999.99"))

	suite.mockAccounts.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockUsers.On("FindUserByID", ctx, adminID).Return(&domain.User{UserID: adminID, IsAdmin: true}, nil).Once()

	got, err := suite.service.GetAccountByID(ctx, adminID, account.AccountID)

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, got.AccountID)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_Missing() {
	ctx := context.Background()
	callerID := uuid.NewString()

	suite.mockAccounts.On("FindAccountByID", ctx, "nonexistent").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccountByID(ctx, callerID, "nonexistent")

	suite.Require().ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccountsForUser() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	accounts := []domain.Account{
		*ownedAccount(ownerID, domain.Checking, decimal.RequireFromString("500.00")),
		*ownedAccount(ownerID, domain.Savings, decimal.Zero),
	}

	suite.mockAccounts.On("FindAccountsByOwner", ctx, ownerID).Return(accounts, nil).Once()

	got, err := suite.service.ListAccountsForUser(ctx, ownerID)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func (suite *AccountServiceTestSuite) TestResolveAccountNumber_Success() {
	ctx := context.Background()
	entry := &domain.DirectoryEntry{
		AccountNumber: "NB1234567890",
		OwnerID:       uuid.NewString(),
		DisplayName:   "Alex Customer",
	}

	suite.mockAccounts.On("FindOwnerByAccountNumber", ctx, entry.AccountNumber).Return(entry, nil).Once()

	got, err := suite.service.ResolveAccountNumber(ctx, entry.AccountNumber)

	suite.Require().NoError(err)
	suite.Equal(entry.DisplayName, got.DisplayName)
}

func (suite *AccountServiceTestSuite) TestResolveAccountNumber_MalformedRejectedWithoutLookup() {
	ctx := context.Background()

	_, err := suite.service.ResolveAccountNumber(ctx, "not-a-number")

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccounts.AssertNotCalled(suite.T(), "FindOwnerByAccountNumber", ctx, "not-a-number")
}

func (suite *AccountServiceTestSuite) TestResolveAccountNumber_Unknown() {
	ctx := context.Background()

	suite.mockAccounts.On("FindOwnerByAccountNumber", ctx, "NB0000000000").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveAccountNumber(ctx, "NB0000000000")

	suite.Require().ErrorIs(err, apperrors.ErrReceiverNotFound)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
