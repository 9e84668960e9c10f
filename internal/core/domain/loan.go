package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the loan application state. PENDING transitions to exactly one
// of the terminal states; terminal states never transition again.
type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is permitted.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanApproved || s == LoanRejected
}

// Loan represents a loan application submitted by a user and decided by an admin.
type Loan struct {
	LoanID          string          `json:"loanID"` // Primary key (UUID)
	UserID          string          `json:"userID"`
	Amount          decimal.Decimal `json:"amount"`
	TermMonths      int             `json:"termMonths"`
	AnnualRate      decimal.Decimal `json:"annualRate"`     // Percentage, e.g. 8.5
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"` // Computed at submission
	Purpose         string          `json:"purpose"`
	Status          LoanStatus      `json:"status"`
	DecidedBy       string          `json:"decidedBy,omitempty"` // Admin UserID, set on approve/reject
	DecidedAt       *time.Time      `json:"decidedAt,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	AuditFields
}
