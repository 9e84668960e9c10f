package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the DB representation of a loan application.
type Loan struct {
	LoanID          string          `db:"loan_id"`
	UserID          string          `db:"user_id"`
	Amount          decimal.Decimal `db:"amount"`
	TermMonths      int             `db:"term_months"`
	AnnualRate      decimal.Decimal `db:"annual_rate"`
	MonthlyPayment  decimal.Decimal `db:"monthly_payment"`
	Purpose         string          `db:"purpose"`
	Status          string          `db:"status"`
	DecidedBy       string          `db:"decided_by"` // Nullable
	DecidedAt       *time.Time      `db:"decided_at"` // Nullable
	RejectionReason string          `db:"rejection_reason"`
	AuditFields
}
