package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	"github.com/NovaBankHQ/nova_banking_app/internal/models"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `loan_id, user_id, amount, term_months, annual_rate, monthly_payment, purpose, status, decided_by, decided_at, rejection_reason, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan applications.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	var decidedBy, rejectionReason *string
	err := row.Scan(
		&m.LoanID,
		&m.UserID,
		&m.Amount,
		&m.TermMonths,
		&m.AnnualRate,
		&m.MonthlyPayment,
		&m.Purpose,
		&m.Status,
		&decidedBy,
		&m.DecidedAt,
		&rejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if decidedBy != nil {
		m.DecidedBy = *decidedBy
	}
	if rejectionReason != nil {
		m.RejectionReason = *rejectionReason
	}
	return &m, nil
}

// SaveLoan persists a new loan application.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (loan_id, user_id, amount, term_months, annual_rate, monthly_payment, purpose, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LoanID, m.UserID, m.Amount, m.TermMonths, m.AnnualRate, m.MonthlyPayment,
		m.Purpose, m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

// TransitionLoan moves a loan out of PENDING. The update is conditional on the
// row still being PENDING so concurrent admin decisions cannot both win.
func (r *PgxLoanRepository) TransitionLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		UPDATE loans
		SET status = $1, decided_by = $2, decided_at = $3, rejection_reason = $4, last_updated_at = $5, last_updated_by = $6
		WHERE loan_id = $7 AND status = $8;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Status, m.DecidedBy, m.DecidedAt, m.RejectionReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.LoanID, string(domain.LoanPending),
	)
	if err != nil {
		return fmt.Errorf("failed to transition loan %s: %w", m.LoanID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE loan_id = $1);`, m.LoanID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check loan %s: %w", m.LoanID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// FindLoanByID retrieves a single loan application.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}

	d := mapping.ToDomainLoan(*m)
	return &d, nil
}

// ListLoansByUser retrieves a user's loan applications, newest first.
func (r *PgxLoanRepository) ListLoansByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Loan, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE user_id = $1
		ORDER BY created_at DESC, loan_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListLoansByStatus retrieves loans in a status, oldest first so admins
// review applications in submission order.
func (r *PgxLoanRepository) ListLoansByStatus(ctx context.Context, status domain.LoanStatus, limit int, offset int) ([]domain.Loan, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE status = $1
		ORDER BY created_at ASC, loan_id ASC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans with status %s: %w", status, err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var loans []models.Loan
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		loans = append(loans, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}
	return mapping.ToDomainLoanSlice(loans), nil
}
