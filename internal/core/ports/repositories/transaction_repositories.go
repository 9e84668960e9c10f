package repositories

import (
	"context"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations over the append-only ledger.
type TransactionReader interface {
	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser retrieves a user's ledger entries, newest first,
	// using an opaque pagination token. Returns the page and the token for the
	// next page ("" when exhausted).
	ListTransactionsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Transaction, string, error)

	// ListTransactionsByAccount retrieves an account's ledger entries, newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Transaction, error)

	// SumAmountsByUserSince returns the sum of a user's transaction amounts
	// with created_at >= since. Zero when the user has no entries in range.
	SumAmountsByUserSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error)

	// AverageAmountByUser returns the historical average transaction amount
	// for the user and the number of entries it covers.
	AverageAmountByUser(ctx context.Context, userID string) (decimal.Decimal, int64, error)

	// FindRecentByUser retrieves the user's most recent entries, newest first.
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

// TransactionWriter appends entries to the ledger. Entries are immutable once
// written; there is no update operation.
type TransactionWriter interface {
	// SaveTransactionsInTx appends ledger entries within a given database
	// transaction so they commit atomically with the balance mutation.
	SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, transactions []domain.Transaction) error
}

// TransactionRepositoryFacade combines ledger read and write interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
