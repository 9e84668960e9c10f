package services

import (
	"context"
	"errors"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
)

// ledgerService provides read access to transaction history. The ledger is
// append-only; entries are written exclusively by the transfer service.
type ledgerService struct {
	txnRepo     portsrepo.TransactionRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txnRepo:     txnRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) callerIsAdmin(ctx context.Context, callerID string) bool {
	user, err := s.userRepo.FindUserByID(ctx, callerID)
	return err == nil && user.IsAdmin
}

// ListUserTransactions retrieves a user's ledger entries newest first.
func (s *ledgerService) ListUserTransactions(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Transaction, string, error) {
	return s.txnRepo.ListTransactionsByUser(ctx, userID, limit, pageToken)
}

// ListAccountTransactions retrieves an account's ledger entries newest first,
// enforcing ownership unless the caller is an admin.
func (s *ledgerService) ListAccountTransactions(ctx context.Context, callerID string, accountID string, limit int, offset int) ([]domain.Transaction, error) {
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
	return s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, offset)
}

// GetTransaction retrieves a single ledger entry, enforcing ownership.
func (s *ledgerService) GetTransaction(ctx context.Context, callerID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != callerID && !s.callerIsAdmin(ctx, callerID) {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}
