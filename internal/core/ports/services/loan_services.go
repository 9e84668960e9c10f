package services

import (
	"context"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
)

// LoanSvcFacade manages the loan application state machine:
// PENDING -> APPROVED | REJECTED, terminal states never transition again.
type LoanSvcFacade interface {
	// SubmitLoan files a new application in PENDING.
	SubmitLoan(ctx context.Context, userID string, req dto.SubmitLoanRequest) (*domain.Loan, error)

	// ApproveLoan transitions a PENDING loan to APPROVED. Fails with
	// apperrors.ErrInvalidTransition when the loan is already decided.
	ApproveLoan(ctx context.Context, loanID string, adminID string) (*domain.Loan, error)

	// RejectLoan transitions a PENDING loan to REJECTED with a reason.
	RejectLoan(ctx context.Context, loanID string, adminID string, reason string) (*domain.Loan, error)

	// GetLoan retrieves a single application, enforcing ownership unless the
	// caller is an admin.
	GetLoan(ctx context.Context, callerID string, loanID string) (*domain.Loan, error)

	// ListLoansForUser retrieves a user's applications newest first.
	ListLoansForUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Loan, error)

	// ListPendingLoans retrieves undecided applications in submission order.
	ListPendingLoans(ctx context.Context, limit int, offset int) ([]domain.Loan, error)
}
