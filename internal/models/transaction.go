package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the DB representation of an immutable ledger entry.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	AccountID     string          `db:"account_id"`
	Type          string          `db:"type"`
	Direction     string          `db:"direction"`
	Amount        decimal.Decimal `db:"amount"`
	FromAccount   string          `db:"from_account"` // Nullable
	ToAccount     string          `db:"to_account"`   // Nullable
	TransferRef   string          `db:"transfer_ref"` // Nullable
	Description   string          `db:"description"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}
