package dto

import (
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FraudAlertResponse defines the data returned for a fraud alert.
type FraudAlertResponse struct {
	AlertID    string                  `json:"alertID"`
	UserID     string                  `json:"userID"`
	Type       domain.FraudAlertType   `json:"type"`
	Amount     decimal.Decimal         `json:"amount"`
	Status     domain.FraudAlertStatus `json:"status"`
	Details    string                  `json:"details"`
	CreatedAt  time.Time               `json:"createdAt"`
	ResolvedAt *time.Time              `json:"resolvedAt,omitempty"`
	ResolvedBy string                  `json:"resolvedBy,omitempty"`
}

// ToFraudAlertResponse converts a domain.FraudAlert to its DTO.
func ToFraudAlertResponse(a *domain.FraudAlert) FraudAlertResponse {
	return FraudAlertResponse{
		AlertID:    a.AlertID,
		UserID:     a.UserID,
		Type:       a.Type,
		Amount:     a.Amount,
		Status:     a.Status,
		Details:    a.Details,
		CreatedAt:  a.CreatedAt,
		ResolvedAt: a.ResolvedAt,
		ResolvedBy: a.ResolvedBy,
	}
}

// ListFraudAlertsParams defines query parameters for the admin alert list.
type ListFraudAlertsParams struct {
	Status string `form:"status" binding:"omitempty,oneof=FLAGGED PENDING RESOLVED"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListFraudAlertsResponse wraps a list of fraud alerts.
type ListFraudAlertsResponse struct {
	Alerts []FraudAlertResponse `json:"alerts"`
}

// ToListFraudAlertsResponse converts a slice of domain alerts.
func ToListFraudAlertsResponse(alerts []domain.FraudAlert) ListFraudAlertsResponse {
	res := make([]FraudAlertResponse, len(alerts))
	for i := range alerts {
		res[i] = ToFraudAlertResponse(&alerts[i])
	}
	return ListFraudAlertsResponse{Alerts: res}
}
