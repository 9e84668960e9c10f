package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of money movement a ledger entry records.
type TransactionType string

const (
	Deposit          TransactionType = "DEPOSIT"
	Withdrawal       TransactionType = "WITHDRAWAL"
	InternalTransfer TransactionType = "INTERNAL_TRANSFER"
	ExternalTransfer TransactionType = "EXTERNAL_TRANSFER"
)

// TransactionDirection indicates whether the entry debits or credits the
// account whose history contains it.
type TransactionDirection string

const (
	Debit  TransactionDirection = "DEBIT"
	Credit TransactionDirection = "CREDIT"
)

// TransactionStatus is resolved at creation time; ledger entries have no
// pending state.
type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "COMPLETED"
	TxnFailed    TransactionStatus = "FAILED"
)

// Transaction is a single immutable ledger entry. It is created exactly once,
// when a transfer service operation commits. An external transfer produces two
// entries sharing a TransferRef, one per party's own history.
type Transaction struct {
	TransactionID string               `json:"transactionID"` // Primary key (UUID)
	UserID        string               `json:"userID"`        // Owner of the history this entry belongs to
	AccountID     string               `json:"accountID"`     // Account the entry applies to
	Type          TransactionType      `json:"type"`
	Direction     TransactionDirection `json:"direction"`
	Amount        decimal.Decimal      `json:"amount"` // Always positive
	FromAccount   string               `json:"fromAccount,omitempty"`
	ToAccount     string               `json:"toAccount,omitempty"`
	TransferRef   string               `json:"transferRef,omitempty"` // Shared id linking the two sides of an external transfer
	Description   string               `json:"description,omitempty"`
	Status        TransactionStatus    `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
}
