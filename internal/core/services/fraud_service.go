package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	portssvc "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/services"
	"github.com/NovaBankHQ/nova_banking_app/internal/middleware"
	"github.com/NovaBankHQ/nova_banking_app/internal/platform/config"
	"github.com/shopspring/decimal"
)

// fraudService is the fraud sentinel. It reads the ledger, never writes to it;
// its only writes are append-only alerts.
type fraudService struct {
	alertRepo portsrepo.FraudAlertRepositoryFacade
	txnRepo   portsrepo.TransactionRepositoryFacade
	notifier  portssvc.Notifier

	singleTxnLimit      decimal.Decimal
	dailyLimit          decimal.Decimal
	hourlyLimit         decimal.Decimal
	deviationMultiplier decimal.Decimal
	rapidWindowTxns     int
	rapidMaxAvgGap      time.Duration
}

// NewFraudService creates a new FraudService.
func NewFraudService(alertRepo portsrepo.FraudAlertRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, notifier portssvc.Notifier, cfg *config.Config) portssvc.FraudSvcFacade {
	return &fraudService{
		alertRepo:           alertRepo,
		txnRepo:             txnRepo,
		notifier:            notifier,
		singleTxnLimit:      cfg.FraudSingleTxnLimit,
		dailyLimit:          cfg.FraudDailyLimit,
		hourlyLimit:         cfg.FraudHourlyLimit,
		deviationMultiplier: cfg.FraudDeviationMultiplier,
		rapidWindowTxns:     cfg.FraudRapidWindowTxns,
		rapidMaxAvgGap:      cfg.FraudRapidMaxAvgGap,
	}
}

var _ portssvc.FraudSvcFacade = (*fraudService)(nil)

// EvaluateTransaction classifies a prospective transaction against all rules
// and records one alert per match. Evaluation errors fail closed: the verdict
// is flagged and a CHECK_ERROR alert is recorded in place of a rule verdict.
func (s *fraudService) EvaluateTransaction(ctx context.Context, userID string, amount decimal.Decimal, txnType domain.TransactionType) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	matches, err := s.evaluateRules(ctx, userID, amount, now)
	if err != nil {
		logger.Error("Fraud evaluation failed, failing closed", slog.String("user_id", userID), slog.String("error", err.Error()))
		s.recordAlert(ctx, userID, amount, domain.AlertCheckError, fmt.Sprintf("evaluation error: %v", err), now)
		return true, nil
	}

	for alertType, details := range matches {
		s.recordAlert(ctx, userID, amount, alertType, details, now)
	}
	return len(matches) > 0, nil
}

// evaluateRules runs every rule and returns the matches keyed by alert type.
func (s *fraudService) evaluateRules(ctx context.Context, userID string, amount decimal.Decimal, now time.Time) (map[domain.FraudAlertType]string, error) {
	matches := make(map[domain.FraudAlertType]string)

	// Rule 1: single transaction over the absolute limit. The limit itself
	// does not flag; only strictly greater amounts do.
	if amount.GreaterThan(s.singleTxnLimit) {
		matches[domain.AlertLargeTransaction] = fmt.Sprintf("amount %s exceeds single transaction limit %s", amount, s.singleTxnLimit)
	}

	// Rule 2: cumulative volume since local midnight.
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dailySum, err := s.txnRepo.SumAmountsByUserSince(ctx, userID, midnight)
	if err != nil {
		return nil, err
	}
	if dailySum.Add(amount).GreaterThan(s.dailyLimit) {
		matches[domain.AlertDailyLimit] = fmt.Sprintf("daily volume %s would exceed limit %s", dailySum.Add(amount), s.dailyLimit)
	}

	// Rule 3: cumulative volume over the trailing hour.
	hourAgo := now.Add(-time.Hour)
	hourlySum, err := s.txnRepo.SumAmountsByUserSince(ctx, userID, hourAgo)
	if err != nil {
		return nil, err
	}
	if hourlySum.Add(amount).GreaterThan(s.hourlyLimit) {
		matches[domain.AlertHourlyLimit] = fmt.Sprintf("hourly volume %s would exceed limit %s", hourlySum.Add(amount), s.hourlyLimit)
	}

	// Rule 4: deviation from the user's own historical average.
	avg, count, err := s.txnRepo.AverageAmountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count > 0 && avg.IsPositive() && amount.GreaterThan(avg.Mul(s.deviationMultiplier)) {
		matches[domain.AlertUnusualAmount] = fmt.Sprintf("amount %s is more than %s times the historical average %s", amount, s.deviationMultiplier, avg)
	}

	// Rule 5: rapid fire. Looks at the most recent entries; with at least
	// three of them, an average gap under the threshold flags.
	recent, err := s.txnRepo.FindRecentByUser(ctx, userID, s.rapidWindowTxns)
	if err != nil {
		return nil, err
	}
	if len(recent) >= 3 {
		newest := recent[0].CreatedAt
		oldest := recent[len(recent)-1].CreatedAt
		avgGap := newest.Sub(oldest) / time.Duration(len(recent)-1)
		if avgGap < s.rapidMaxAvgGap {
			matches[domain.AlertRapidFire] = fmt.Sprintf("%d transactions with average gap %s", len(recent), avgGap)
		}
	}

	return matches, nil
}

// recordAlert appends an alert and publishes it. Alert persistence failures
// are logged but never abort the calling operation; the verdict already
// carries the flag.
func (s *fraudService) recordAlert(ctx context.Context, userID string, amount decimal.Decimal, alertType domain.FraudAlertType, details string, now time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)

	alert := domain.FraudAlert{
		AlertID:   uuid.NewString(),
		UserID:    userID,
		Type:      alertType,
		Amount:    amount,
		Status:    domain.AlertFlagged,
		Details:   details,
		CreatedAt: now,
	}
	if err := s.alertRepo.SaveAlert(ctx, alert); err != nil {
		logger.Error("Failed to record fraud alert", slog.String("alert_type", string(alertType)), slog.String("error", err.Error()))
		return
	}

	logger.Warn("Fraud alert recorded", slog.String("alert_type", string(alertType)), slog.String("details", details))
	s.notifier.NotifyFraudAlert(ctx, portssvc.FraudAlertEvent{
		AlertID:   alert.AlertID,
		UserID:    userID,
		AlertType: string(alertType),
		Amount:    amount,
		Details:   details,
		Timestamp: now,
	})
}

// ListAlerts retrieves alerts for the admin review surface.
func (s *fraudService) ListAlerts(ctx context.Context, status domain.FraudAlertStatus, limit int, offset int) ([]domain.FraudAlert, error) {
	return s.alertRepo.ListAlerts(ctx, status, limit, offset)
}

// ListAlertsForUser retrieves a user's own alerts.
func (s *fraudService) ListAlertsForUser(ctx context.Context, userID string, limit int, offset int) ([]domain.FraudAlert, error) {
	return s.alertRepo.ListAlertsByUser(ctx, userID, limit, offset)
}

// ResolveAlert marks an alert resolved, stamping the acting admin.
func (s *fraudService) ResolveAlert(ctx context.Context, alertID string, adminID string) error {
	return s.alertRepo.ResolveAlert(ctx, alertID, adminID, time.Now().UTC())
}
