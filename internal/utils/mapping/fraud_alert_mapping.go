package mapping

import (
	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/NovaBankHQ/nova_banking_app/internal/models"
)

// ToModelFraudAlert converts a domain FraudAlert to a model FraudAlert
func ToModelFraudAlert(d domain.FraudAlert) models.FraudAlert {
	return models.FraudAlert{
		AlertID:    d.AlertID,
		UserID:     d.UserID,
		Type:       string(d.Type),
		Amount:     d.Amount,
		Status:     string(d.Status),
		Details:    d.Details,
		CreatedAt:  d.CreatedAt,
		ResolvedAt: d.ResolvedAt,
		ResolvedBy: d.ResolvedBy,
	}
}

// ToDomainFraudAlert converts a model FraudAlert to a domain FraudAlert
func ToDomainFraudAlert(m models.FraudAlert) domain.FraudAlert {
	return domain.FraudAlert{
		AlertID:    m.AlertID,
		UserID:     m.UserID,
		Type:       domain.FraudAlertType(m.Type),
		Amount:     m.Amount,
		Status:     domain.FraudAlertStatus(m.Status),
		Details:    m.Details,
		CreatedAt:  m.CreatedAt,
		ResolvedAt: m.ResolvedAt,
		ResolvedBy: m.ResolvedBy,
	}
}

// ToDomainFraudAlertSlice converts a slice of model FraudAlerts to domain FraudAlerts
func ToDomainFraudAlertSlice(ms []models.FraudAlert) []domain.FraudAlert {
	ds := make([]domain.FraudAlert, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFraudAlert(m)
	}
	return ds
}
