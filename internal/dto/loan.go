package dto

import (
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitLoanRequest defines the data needed to file a loan application.
type SubmitLoanRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	TermMonths int             `json:"termMonths" binding:"required,gt=0,lte=360"`
	Purpose    string          `json:"purpose" binding:"required"`
}

// RejectLoanRequest carries the admin's rejection reason.
type RejectLoanRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LoanResponse defines the data returned for a loan application.
type LoanResponse struct {
	LoanID          string          `json:"loanID"`
	UserID          string          `json:"userID"`
	Amount          decimal.Decimal `json:"amount"`
	TermMonths      int             `json:"termMonths"`
	AnnualRate      decimal.Decimal `json:"annualRate"`
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	Purpose         string          `json:"purpose"`
	Status          domain.LoanStatus `json:"status"`
	DecidedBy       string          `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time      `json:"decidedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToLoanResponse converts a domain.Loan to its DTO.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:          l.LoanID,
		UserID:          l.UserID,
		Amount:          l.Amount,
		TermMonths:      l.TermMonths,
		AnnualRate:      l.AnnualRate,
		MonthlyPayment:  l.MonthlyPayment,
		Purpose:         l.Purpose,
		Status:          l.Status,
		DecidedBy:       l.DecidedBy,
		DecidedAt:       l.DecidedAt,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt,
	}
}

// ListLoansResponse wraps a list of loan applications.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// ToListLoansResponse converts a slice of domain loans.
func ToListLoansResponse(loans []domain.Loan) ListLoansResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i])
	}
	return ListLoansResponse{Loans: res}
}

// ListParams defines generic limit/offset query parameters.
type ListParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
