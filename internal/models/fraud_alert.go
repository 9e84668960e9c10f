package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FraudAlert is the DB representation of a logged fraud sentinel alert.
type FraudAlert struct {
	AlertID    string          `db:"alert_id"`
	UserID     string          `db:"user_id"`
	Type       string          `db:"type"`
	Amount     decimal.Decimal `db:"amount"`
	Status     string          `db:"status"`
	Details    string          `db:"details"`
	CreatedAt  time.Time       `db:"created_at"`
	ResolvedAt *time.Time      `db:"resolved_at"` // Nullable
	ResolvedBy string          `db:"resolved_by"` // Nullable
}
