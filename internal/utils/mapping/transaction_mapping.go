package mapping

import (
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/NovaBankHQ/nova_banking_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		AccountID:     d.AccountID,
		Type:          string(d.Type),
		Direction:     string(d.Direction),
		Amount:        d.Amount,
		FromAccount:   d.FromAccount,
		ToAccount:     d.ToAccount,
		TransferRef:   d.TransferRef,
		Description:   d.Description,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		AccountID:     m.AccountID,
		Type:          domain.TransactionType(m.Type),
		Direction:     domain.TransactionDirection(m.Direction),
		Amount:        m.Amount,
		FromAccount:   m.FromAccount,
		ToAccount:     m.ToAccount,
		TransferRef:   m.TransferRef,
		Description:   m.Description,
		Status:        domain.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
