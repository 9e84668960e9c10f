package mapping

import (
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/NovaBankHQ/nova_banking_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:          d.LoanID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		TermMonths:      d.TermMonths,
		AnnualRate:      d.AnnualRate,
		MonthlyPayment:  d.MonthlyPayment,
		Purpose:         d.Purpose,
		Status:          string(d.Status),
		DecidedBy:       d.DecidedBy,
		DecidedAt:       d.DecidedAt,
		RejectionReason: d.RejectionReason,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:          m.LoanID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		TermMonths:      m.TermMonths,
		AnnualRate:      m.AnnualRate,
		MonthlyPayment:  m.MonthlyPayment,
		Purpose:         m.Purpose,
		Status:          domain.LoanStatus(m.Status),
		DecidedBy:       m.DecidedBy,
		DecidedAt:       m.DecidedAt,
		RejectionReason: m.RejectionReason,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans to domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}
