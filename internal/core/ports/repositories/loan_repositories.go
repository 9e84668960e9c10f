package repositories

import (
	"context"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
)

// LoanReader defines read operations for loan applications.
type LoanReader interface {
	// FindLoanByID retrieves a single loan application.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByUser retrieves a user's loan applications, newest first.
	ListLoansByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Loan, error)

	// ListLoansByStatus retrieves loans in a given status, oldest first so
	// admins review in submission order.
	ListLoansByStatus(ctx context.Context, status domain.LoanStatus, limit int, offset int) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan applications.
type LoanWriter interface {
	// SaveLoan persists a new loan application.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// TransitionLoan moves a loan from PENDING to a terminal status. The
	// update is conditional on the current status still being PENDING and
	// returns apperrors.ErrInvalidTransition when it is not.
	TransitionLoan(ctx context.Context, loan domain.Loan) error
}

// LoanRepositoryFacade combines loan read and write interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
