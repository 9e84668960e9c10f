package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FraudAlertType is the closed set of rule violations the sentinel records.
type FraudAlertType string

const (
	AlertLargeTransaction FraudAlertType = "LARGE_TRANSACTION"
	AlertDailyLimit       FraudAlertType = "DAILY_LIMIT_EXCEEDED"
	AlertHourlyLimit      FraudAlertType = "HOURLY_LIMIT_EXCEEDED"
	AlertUnusualAmount    FraudAlertType = "UNUSUAL_AMOUNT"
	AlertRapidFire        FraudAlertType = "RAPID_TRANSACTIONS"
	AlertCheckError       FraudAlertType = "CHECK_ERROR"
)

// FraudAlertStatus tracks the review lifecycle of an alert.
type FraudAlertStatus string

const (
	AlertFlagged  FraudAlertStatus = "FLAGGED"
	AlertPending  FraudAlertStatus = "PENDING"
	AlertResolved FraudAlertStatus = "RESOLVED"
)

// FraudAlert is an advisory record flagging a prospective transaction.
// Created only by the fraud sentinel; resolved later by an administrator.
type FraudAlert struct {
	AlertID    string           `json:"alertID"` // Primary key (UUID)
	UserID     string           `json:"userID"`
	Type       FraudAlertType   `json:"type"`
	Amount     decimal.Decimal  `json:"amount"`
	Status     FraudAlertStatus `json:"status"`
	Details    string           `json:"details"`
	CreatedAt  time.Time        `json:"createdAt"`
	ResolvedAt *time.Time       `json:"resolvedAt,omitempty"`
	ResolvedBy string           `json:"resolvedBy,omitempty"` // Admin UserID
}
