package repositories

import (
	"context"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
)

// FraudAlertWriter appends alerts; alerts are only created by the sentinel.
type FraudAlertWriter interface {
	// SaveAlert persists a new fraud alert.
	SaveAlert(ctx context.Context, alert domain.FraudAlert) error

	// ResolveAlert transitions an alert to RESOLVED, stamping the acting admin.
	ResolveAlert(ctx context.Context, alertID string, adminID string, now time.Time) error
}

// FraudAlertReader defines read operations for the admin review surface.
type FraudAlertReader interface {
	// FindAlertByID retrieves a single alert.
	FindAlertByID(ctx context.Context, alertID string) (*domain.FraudAlert, error)

	// ListAlerts retrieves alerts newest first, optionally filtered by status
	// ("" for all).
	ListAlerts(ctx context.Context, status domain.FraudAlertStatus, limit int, offset int) ([]domain.FraudAlert, error)

	// ListAlertsByUser retrieves a user's alerts newest first.
	ListAlertsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.FraudAlert, error)
}

// FraudAlertRepositoryFacade combines alert read and write interfaces.
type FraudAlertRepositoryFacade interface {
	FraudAlertReader
	FraudAlertWriter
}
