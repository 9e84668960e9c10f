package services

import (
	"context"
	"errors"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils"
)

// accountService provides read access to accounts and the public directory.
// All balance mutation goes through the transfer service.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// callerIsAdmin loads the caller and reports their admin flag. Lookup errors
// degrade to non-admin.
func (s *accountService) callerIsAdmin(ctx context.Context, callerID string) bool {
	user, err := s.userRepo.FindUserByID(ctx, callerID)
	return err == nil && user.IsAdmin
}

// GetAccountByID retrieves an account, enforcing ownership unless the caller
// is an admin. Foreign accounts surface as not found.
func (s *accountService) GetAccountByID(ctx context.Context, callerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	if account.OwnerID != callerID && !s.callerIsAdmin(ctx, callerID) {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}

// ListAccountsForUser retrieves the user's active accounts, oldest first.
func (s *accountService) ListAccountsForUser(ctx context.Context, ownerID string) ([]domain.Account, error) {
	return s.accountRepo.FindAccountsByOwner(ctx, ownerID)
}

// ResolveAccountNumber resolves a public account number to its directory
// entry. The directory reads the live account rows, so a freshly created
// account resolves immediately.
func (s *accountService) ResolveAccountNumber(ctx context.Context, accountNumber string) (*domain.DirectoryEntry, error) {
	if !utils.IsValidAccountNumber(accountNumber) {
		return nil, apperrors.ErrValidation
	}
	entry, err := s.accountRepo.FindOwnerByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrReceiverNotFound
		}
		return nil, err
	}
	return entry, nil
}
