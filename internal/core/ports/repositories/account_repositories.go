package repositories

import (
	"context"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByOwner retrieves every active account owned by a user,
	// oldest first.
	FindAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)

	// FindAccountByOwnerAndType retrieves the user's oldest active account of
	// the given type, or apperrors.ErrNotFound.
	FindAccountByOwnerAndType(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error)

	// AccountNumberExists reports whether an account number is already taken.
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
}

// AccountDirectory resolves a public account number to its owner. It reads the
// same rows the writers commit, so a freshly created account is resolvable
// immediately.
type AccountDirectory interface {
	// FindOwnerByAccountNumber resolves an account number to a directory
	// entry, or apperrors.ErrNotFound.
	FindOwnerByAccountNumber(ctx context.Context, accountNumber string) (*domain.DirectoryEntry, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that participate in a database
// transaction spanning the full read-check-write sequence of a transfer.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update
	// within a transaction. Missing accounts surface as apperrors.ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to multiple
	// accounts within a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error

	// SaveAccountInTx persists a new account within a given transaction.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountDirectory
	AccountWriter
	AccountTransactionSupport
	TransactionManager
}
