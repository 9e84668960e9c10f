package dto

import (
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest defines the data for a deposit into one account.
type DepositRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// WithdrawRequest defines the data for a withdrawal from one account.
type WithdrawRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// InternalTransferRequest moves money between two known accounts without
// directory resolution.
type InternalTransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description"`
}

// ExternalTransferRequest moves money to another customer addressed by their
// public account number.
type ExternalTransferRequest struct {
	ReceiverAccountNumber string          `json:"receiverAccountNumber" binding:"required,accountnumber"`
	Amount                decimal.Decimal `json:"amount" binding:"required"`
	Note                  string          `json:"note"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string                      `json:"transactionID"`
	AccountID     string                      `json:"accountID"`
	Type          domain.TransactionType      `json:"type"`
	Direction     domain.TransactionDirection `json:"direction"`
	Amount        decimal.Decimal             `json:"amount"`
	FromAccount   string                      `json:"fromAccount,omitempty"`
	ToAccount     string                      `json:"toAccount,omitempty"`
	TransferRef   string                      `json:"transferRef,omitempty"`
	Description   string                      `json:"description,omitempty"`
	Status        domain.TransactionStatus    `json:"status"`
	CreatedAt     time.Time                   `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Type:          txn.Type,
		Direction:     txn.Direction,
		Amount:        txn.Amount,
		FromAccount:   txn.FromAccount,
		ToAccount:     txn.ToAccount,
		TransferRef:   txn.TransferRef,
		Description:   txn.Description,
		Status:        txn.Status,
		CreatedAt:     txn.CreatedAt,
	}
}

// TransferResponse is returned by transfer engine operations. Flagged reports
// whether the fraud sentinel matched any rule (advisory unless blocking mode
// is enabled, in which case the operation fails instead).
type TransferResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Flagged     bool                `json:"flagged"`
}

// ListTransactionsParams defines query parameters for listing ledger entries.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
	PageToken string `form:"pageToken"`
}

// ListTransactionsResponse wraps a page of ledger entries.
type ListTransactionsResponse struct {
	Transactions  []TransactionResponse `json:"transactions"`
	NextPageToken string                `json:"nextPageToken,omitempty"`
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: res, NextPageToken: nextToken}
}
