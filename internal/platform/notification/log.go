package notification

import (
	"context"
	"log/slog"

	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
)

// LogNotifier writes events to the structured log. Used when no broker is
// configured or the AMQP dial fails at startup.
type LogNotifier struct {
	logger *slog.Logger
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-only notification surface.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyOperation(ctx context.Context, event portssvc.OperationEvent) {
	n.logger.InfoContext(ctx, "Operation outcome",
		slog.String("user_id", event.UserID),
		slog.String("operation", event.Operation),
		slog.Bool("succeeded", event.Succeeded),
		slog.String("message", event.Message),
	)
}

func (n *LogNotifier) NotifyFraudAlert(ctx context.Context, event portssvc.FraudAlertEvent) {
	n.logger.WarnContext(ctx, "Fraud alert",
		slog.String("user_id", event.UserID),
		slog.String("alert_type", event.AlertType),
		slog.String("details", event.Details),
	)
}

func (n *LogNotifier) NotifyLoanDecision(ctx context.Context, event portssvc.LoanDecisionEvent) {
	n.logger.InfoContext(ctx, "Loan decision",
		slog.String("loan_id", event.LoanID),
		slog.String("user_id", event.UserID),
		slog.String("status", event.Status),
	)
}
