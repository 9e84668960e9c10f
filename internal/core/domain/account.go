package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies a customer account.
type AccountType string

const (
	Checking AccountType = "CHECKING"
	Savings  AccountType = "SAVINGS"
	Custom   AccountType = "CUSTOM"
)

// Account represents a customer account within the core domain.
// This is the primary representation used by services.
//
// Balance never goes negative; the transfer service is the only writer and
// enforces the invariant before any commit.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary key (UUID)
	OwnerID       string          `json:"ownerID"`       // FK -> users.user_id, exclusive owner
	AccountNumber string          `json:"accountNumber"` // Public routing identifier, globally unique, immutable
	Name          string          `json:"name"`          // User-defined display name
	AccountType   AccountType     `json:"accountType"`   // CHECKING, SAVINGS or CUSTOM
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"` // Soft delete flag
	AuditFields
}

// DirectoryEntry is the read-only projection used to resolve a public account
// number to its owning user for external transfers.
type DirectoryEntry struct {
	AccountNumber string `json:"accountNumber"`
	OwnerID       string `json:"ownerID"`
	DisplayName   string `json:"displayName"`
}
