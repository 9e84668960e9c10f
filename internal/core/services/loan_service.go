package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
	"github.com/NovaBankHQ/nova_banking_app/internal/middleware"
	"github.com/NovaBankHQ/nova_banking_app/internal/platform/config"
	"github.com/shopspring/decimal"
)

// loanService manages the loan application state machine:
// PENDING -> APPROVED | REJECTED. Terminal states never transition again.
type loanService struct {
	loanRepo portsrepo.LoanRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
	notifier portssvc.Notifier

	annualRate decimal.Decimal
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, notifier portssvc.Notifier, cfg *config.Config) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:   loanRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		annualRate: cfg.LoanAnnualRate,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// monthlyPayment computes the standard amortized payment for principal p over
// n months at the configured annual rate.
func (s *loanService) monthlyPayment(p decimal.Decimal, n int) decimal.Decimal {
	months := decimal.NewFromInt(int64(n))
	if s.annualRate.IsZero() {
		return p.Div(months).Round(2)
	}
	// Monthly rate as a fraction: annual percent / 12 / 100.
	r := s.annualRate.Div(decimal.NewFromInt(1200))
	factor := decimal.NewFromInt(1).Add(r).Pow(months)
	return p.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))).Round(2)
}

// SubmitLoan files a new application in PENDING.
func (s *loanService) SubmitLoan(ctx context.Context, userID string, req dto.SubmitLoanRequest) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.ErrInvalidAmount
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		UserID:         userID,
		Amount:         req.Amount,
		TermMonths:     req.TermMonths,
		AnnualRate:     s.annualRate,
		MonthlyPayment: s.monthlyPayment(req.Amount, req.TermMonths),
		Purpose:        req.Purpose,
		Status:         domain.LoanPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to submit loan", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Loan application submitted", slog.String("loan_id", loan.LoanID), slog.String("amount", loan.Amount.String()))
	return &loan, nil
}

// decide transitions a PENDING loan to the given terminal status. The
// repository update is conditional on the row still being PENDING, so a
// concurrent decision surfaces as apperrors.ErrInvalidTransition.
func (s *loanService) decide(ctx context.Context, loanID string, adminID string, status domain.LoanStatus, reason string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidTransition
	}

	now := time.Now().UTC()
	loan.Status = status
	loan.DecidedBy = adminID
	loan.DecidedAt = &now
	loan.RejectionReason = reason
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = adminID

	if err := s.loanRepo.TransitionLoan(ctx, *loan); err != nil {
		return nil, err
	}

	logger.Info("Loan decided", slog.String("loan_id", loanID), slog.String("status", string(status)))
	s.notifier.NotifyLoanDecision(ctx, portssvc.LoanDecisionEvent{
		LoanID:    loanID,
		UserID:    loan.UserID,
		Status:    string(status),
		DecidedBy: adminID,
		Reason:    reason,
		Timestamp: now,
	})
	return loan, nil
}

// ApproveLoan transitions a PENDING loan to APPROVED.
func (s *loanService) ApproveLoan(ctx context.Context, loanID string, adminID string) (*domain.Loan, error) {
	return s.decide(ctx, loanID, adminID, domain.LoanApproved, "")
}

// RejectLoan transitions a PENDING loan to REJECTED with a reason.
func (s *loanService) RejectLoan(ctx context.Context, loanID string, adminID string, reason string) (*domain.Loan, error) {
	if reason == "" {
		return nil, apperrors.ErrValidation
	}
	return s.decide(ctx, loanID, adminID, domain.LoanRejected, reason)
}

// GetLoan retrieves a single application, enforcing ownership unless the
// caller is an admin.
func (s *loanService) GetLoan(ctx context.Context, callerID string, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != callerID {
		caller, err := s.userRepo.FindUserByID(ctx, callerID)
		if err != nil || !caller.IsAdmin {
			return nil, apperrors.ErrNotFound
		}
	}
	return loan, nil
}

// ListLoansForUser retrieves a user's applications newest first.
func (s *loanService) ListLoansForUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Loan, error) {
	return s.loanRepo.ListLoansByUser(ctx, userID, limit, offset)
}

// ListPendingLoans retrieves undecided applications in submission order.
func (s *loanService) ListPendingLoans(ctx context.Context, limit int, offset int) ([]domain.Loan, error) {
	return s.loanRepo.ListLoansByStatus(ctx, domain.LoanPending, limit, offset)
}
