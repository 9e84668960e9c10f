package models

import "github.com/shopspring/decimal"

// AccountType classifies a customer account.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
	Custom   AccountType = "CUSTOM"
)

// Account is the DB representation of a customer account.
type Account struct {
	AccountID     string          `db:"account_id"`
	OwnerID       string          `db:"owner_id"`
	AccountNumber string          `db:"account_number"` // Unique across the system
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
