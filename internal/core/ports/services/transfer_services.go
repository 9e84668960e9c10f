package services

import (
	"context"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
)

// TransferResult carries the committed ledger entry (sender-side entry for
// external transfers) and the fraud sentinel verdict for the operation.
type TransferResult struct {
	Transaction domain.Transaction
	Flagged     bool
}

// TransferSvcFacade is the transfer engine: the sole authority permitted to
// mutate account balances. Every operation validates before any mutation and
// commits balance changes and ledger entries atomically.
type TransferSvcFacade interface {
	// Deposit credits an account. Fails with apperrors.ErrInvalidAmount for
	// non-positive amounts and apperrors.ErrAccountNotFound for unknown accounts.
	Deposit(ctx context.Context, userID string, req dto.DepositRequest) (*TransferResult, error)

	// Withdraw debits an account. Additionally fails with
	// apperrors.ErrInsufficientBalance when the balance cannot cover the amount.
	Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*TransferResult, error)

	// TransferInternal atomically moves money between two known accounts.
	TransferInternal(ctx context.Context, userID string, req dto.InternalTransferRequest) (*TransferResult, error)

	// TransferExternal resolves the receiver's public account number through
	// the directory, then atomically debits the sender's checking account and
	// credits the receiver's checking account, appending one ledger entry per
	// party. Fails with apperrors.ErrReceiverNotFound when unresolved.
	TransferExternal(ctx context.Context, senderUserID string, req dto.ExternalTransferRequest) (*TransferResult, error)

	// CreateAccount opens a zero-balance account with a freshly generated,
	// directory-unique account number.
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// EnsureWelcomeAccounts runs the first-time-user bootstrap: a pre-funded
	// checking account and a zero-balance savings account, gated by the
	// permanent per-user flag. Idempotent; returns the user's accounts.
	EnsureWelcomeAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountSvcFacade provides read access to accounts and the public directory.
type AccountSvcFacade interface {
	// GetAccountByID retrieves an account, enforcing ownership unless the
	// caller is an admin.
	GetAccountByID(ctx context.Context, callerID string, accountID string) (*domain.Account, error)

	// ListAccountsForUser retrieves the user's active accounts.
	ListAccountsForUser(ctx context.Context, ownerID string) ([]domain.Account, error)

	// ResolveAccountNumber resolves a public account number to its directory
	// entry, e.g. for the transfer confirmation step.
	ResolveAccountNumber(ctx context.Context, accountNumber string) (*domain.DirectoryEntry, error)
}

// LedgerSvcFacade provides read access to transaction history.
type LedgerSvcFacade interface {
	// ListUserTransactions retrieves a user's ledger entries newest first.
	ListUserTransactions(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Transaction, string, error)

	// ListAccountTransactions retrieves an account's ledger entries newest
	// first, enforcing ownership unless the caller is an admin.
	ListAccountTransactions(ctx context.Context, callerID string, accountID string, limit int, offset int) ([]domain.Transaction, error)

	// GetTransaction retrieves a single ledger entry, enforcing ownership.
	GetTransaction(ctx context.Context, callerID string, transactionID string) (*domain.Transaction, error)
}
