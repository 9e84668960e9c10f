package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/apperrors"
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	"github.com/NovaBankHQ/nova_banking_app/internal/models"
	"github.com/NovaBankHQ/nova_banking_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fraudAlertColumns = `alert_id, user_id, type, amount, status, details, created_at, resolved_at, resolved_by`

type PgxFraudAlertRepository struct {
	BaseRepository
}

// newPgxFraudAlertRepository creates a new repository for fraud alerts.
func newPgxFraudAlertRepository(pool *pgxpool.Pool) portsrepo.FraudAlertRepositoryFacade {
	return &PgxFraudAlertRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FraudAlertRepositoryFacade = (*PgxFraudAlertRepository)(nil)

func scanFraudAlert(row pgx.Row) (*models.FraudAlert, error) {
	var m models.FraudAlert
	var resolvedBy *string
	err := row.Scan(
		&m.AlertID,
		&m.UserID,
		&m.Type,
		&m.Amount,
		&m.Status,
		&m.Details,
		&m.CreatedAt,
		&m.ResolvedAt,
		&resolvedBy,
	)
	if err != nil {
		return nil, err
	}
	if resolvedBy != nil {
		m.ResolvedBy = *resolvedBy
	}
	return &m, nil
}

// SaveAlert persists a new fraud alert.
func (r *PgxFraudAlertRepository) SaveAlert(ctx context.Context, alert domain.FraudAlert) error {
	m := mapping.ToModelFraudAlert(alert)
	query := `
		INSERT INTO fraud_alerts (alert_id, user_id, type, amount, status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.AlertID, m.UserID, m.Type, m.Amount, m.Status, m.Details, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save fraud alert: %w", err)
	}
	return nil
}

// ResolveAlert transitions an alert to RESOLVED, stamping the acting admin.
// Already-resolved alerts are not re-stamped.
func (r *PgxFraudAlertRepository) ResolveAlert(ctx context.Context, alertID string, adminID string, now time.Time) error {
	query := `
		UPDATE fraud_alerts
		SET status = $1, resolved_at = $2, resolved_by = $3
		WHERE alert_id = $4 AND status != $1;
	`
	tag, err := r.Pool.Exec(ctx, query, string(domain.AlertResolved), now, adminID, alertID)
	if err != nil {
		return fmt.Errorf("failed to resolve fraud alert %s: %w", alertID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish missing from already resolved.
		var exists bool
		if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM fraud_alerts WHERE alert_id = $1);`, alertID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check fraud alert %s: %w", alertID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// FindAlertByID retrieves a single alert.
func (r *PgxFraudAlertRepository) FindAlertByID(ctx context.Context, alertID string) (*domain.FraudAlert, error) {
	query := `SELECT ` + fraudAlertColumns + ` FROM fraud_alerts WHERE alert_id = $1;`

	m, err := scanFraudAlert(r.Pool.QueryRow(ctx, query, alertID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fraud alert %s: %w", alertID, err)
	}

	d := mapping.ToDomainFraudAlert(*m)
	return &d, nil
}

// ListAlerts retrieves alerts newest first, optionally filtered by status.
func (r *PgxFraudAlertRepository) ListAlerts(ctx context.Context, status domain.FraudAlertStatus, limit int, offset int) ([]domain.FraudAlert, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if status != "" {
		query := `
			SELECT ` + fraudAlertColumns + `
			FROM fraud_alerts
			WHERE status = $1
			ORDER BY created_at DESC, alert_id DESC
			LIMIT $2 OFFSET $3;
		`
		rows, err = r.Pool.Query(ctx, query, string(status), limit, offset)
	} else {
		query := `
			SELECT ` + fraudAlertColumns + `
			FROM fraud_alerts
			ORDER BY created_at DESC, alert_id DESC
			LIMIT $1 OFFSET $2;
		`
		rows, err = r.Pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fraud alerts: %w", err)
	}
	defer rows.Close()

	return collectFraudAlerts(rows)
}

// ListAlertsByUser retrieves a user's alerts newest first.
func (r *PgxFraudAlertRepository) ListAlertsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.FraudAlert, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + fraudAlertColumns + `
		FROM fraud_alerts
		WHERE user_id = $1
		ORDER BY created_at DESC, alert_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query fraud alerts for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectFraudAlerts(rows)
}

func collectFraudAlerts(rows pgx.Rows) ([]domain.FraudAlert, error) {
	var alerts []models.FraudAlert
	for rows.Next() {
		m, err := scanFraudAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fraud alert row: %w", err)
		}
		alerts = append(alerts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fraud alert rows: %w", err)
	}
	return mapping.ToDomainFraudAlertSlice(alerts), nil
}
