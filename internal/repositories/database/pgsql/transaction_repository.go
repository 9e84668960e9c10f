package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	"github.com/NovaBankHQ/nova_banking_app/internal/models"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils/mapping"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, user_id, account_id, type, direction, amount, from_account, to_account, transfer_ref, description, status, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for the transaction ledger.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	var fromAccount, toAccount, transferRef, description sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.AccountID,
		&m.Type,
		&m.Direction,
		&m.Amount,
		&fromAccount,
		&toAccount,
		&transferRef,
		&description,
		&m.Status,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.FromAccount = fromAccount.String
	m.ToAccount = toAccount.String
	m.TransferRef = transferRef.String
	m.Description = description.String
	return &m, nil
}

// nullable returns a sql.NullString that is NULL for the empty string.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SaveTransactionsInTx appends ledger entries within a database transaction so
// they commit atomically with the balance mutation. Entries are immutable
// after this point; there is no update path.
func (r *PgxTransactionRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, txn := range transactions {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(query,
			m.TransactionID,
			m.UserID,
			m.AccountID,
			m.Type,
			m.Direction,
			m.Amount,
			nullable(m.FromAccount),
			nullable(m.ToAccount),
			nullable(m.TransferRef),
			nullable(m.Description),
			m.Status,
			m.CreatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to append %d ledger entries: %w", len(transactions), err)
	}
	return nil
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	d := mapping.ToDomainTransaction(*m)
	return &d, nil
}

// ListTransactionsByUser retrieves a user's ledger entries newest first using
// a keyset cursor on (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, pageToken string) ([]domain.Transaction, string, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if pageToken != "" {
		cursorTime, cursorID, decodeErr := pagination.DecodeToken(pageToken)
		if decodeErr != nil {
			return nil, "", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE user_id = $1 AND (created_at, transaction_id) < ($2, $3)
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, userID, cursorTime, cursorID, limit+1)
	} else {
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE user_id = $1
			ORDER BY created_at DESC, transaction_id DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, userID, limit+1)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating transaction rows: %w", err)
	}

	nextToken := ""
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		nextToken = pagination.EncodeToken(last.CreatedAt, last.TransactionID)
	}

	return mapping.ToDomainTransactionSlice(txns), nextToken, nil
}

// ListTransactionsByAccount retrieves an account's ledger entries newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(txns), nil
}

// SumAmountsByUserSince returns the sum of a user's transaction amounts with
// created_at >= since.
func (r *PgxTransactionRepository) SumAmountsByUserSince(ctx context.Context, userID string, since time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND created_at >= $2;
	`
	if err := r.Pool.QueryRow(ctx, query, userID, since).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for user %s: %w", userID, err)
	}
	return sum, nil
}

// AverageAmountByUser returns the historical average transaction amount for
// the user and the number of entries it covers.
func (r *PgxTransactionRepository) AverageAmountByUser(ctx context.Context, userID string) (decimal.Decimal, int64, error) {
	var avg decimal.Decimal
	var count int64
	query := `
		SELECT COALESCE(AVG(amount), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1;
	`
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&avg, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to average transactions for user %s: %w", userID, err)
	}
	return avg, count, nil
}

// FindRecentByUser retrieves the user's most recent entries, newest first.
func (r *PgxTransactionRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(txns), nil
}
