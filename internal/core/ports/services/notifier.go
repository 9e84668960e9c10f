package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OperationEvent is the payload reported to the notification surface after a
// transfer engine operation resolves.
type OperationEvent struct {
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Operation     string          `json:"operation"`
	Amount        decimal.Decimal `json:"amount"`
	Succeeded     bool            `json:"succeeded"`
	Message       string          `json:"message"`
	Timestamp     time.Time       `json:"timestamp"`
}

// FraudAlertEvent is the payload published when the sentinel flags a transaction.
type FraudAlertEvent struct {
	AlertID   string          `json:"alert_id"`
	UserID    string          `json:"user_id"`
	AlertType string          `json:"alert_type"`
	Amount    decimal.Decimal `json:"amount"`
	Details   string          `json:"details"`
	Timestamp time.Time       `json:"timestamp"`
}

// LoanDecisionEvent is the payload published when an admin decides a loan.
type LoanDecisionEvent struct {
	LoanID    string    `json:"loan_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	DecidedBy string    `json:"decided_by"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier is the notification surface the core reports outcomes to. The core
// never renders anything itself; implementations fan events out to whatever
// displays them. Publish failures are logged by implementations and never
// propagate into the calling operation.
type Notifier interface {
	NotifyOperation(ctx context.Context, event OperationEvent)
	NotifyFraudAlert(ctx context.Context, event FraudAlertEvent)
	NotifyLoanDecision(ctx context.Context, event LoanDecisionEvent)
}
