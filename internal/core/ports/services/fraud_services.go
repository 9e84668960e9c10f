package services

import (
	"context"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FraudSvcFacade is the fraud sentinel. Evaluation is a side-channel check:
// it records one alert per matching rule and returns a single verdict.
type FraudSvcFacade interface {
	// EvaluateTransaction classifies a prospective transaction. It returns
	// true when any rule matched. Internal evaluation errors are fail-closed:
	// the verdict is true and a CHECK_ERROR alert is recorded.
	EvaluateTransaction(ctx context.Context, userID string, amount decimal.Decimal, txnType domain.TransactionType) (bool, error)

	// ListAlerts retrieves alerts for the admin review surface.
	ListAlerts(ctx context.Context, status domain.FraudAlertStatus, limit int, offset int) ([]domain.FraudAlert, error)

	// ListAlertsForUser retrieves a user's own alerts.
	ListAlertsForUser(ctx context.Context, userID string, limit int, offset int) ([]domain.FraudAlert, error)

	// ResolveAlert marks an alert resolved, stamping the acting admin.
	ResolveAlert(ctx context.Context, alertID string, adminID string) error
}
