package domain

import "time"

// User is the banking customer identity the core consumes. Authentication is
// handled by the token/OAuth services; core services only see the UserID.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Empty for externally authenticated users
	IsAdmin      bool   `json:"isAdmin"`

	// WelcomeBonusGranted is a permanent flag: once set, the first-time
	// account bootstrap can never grant the bonus again, even if every
	// account is later removed.
	WelcomeBonusGranted bool `json:"welcomeBonusGranted"`

	AuthProvider           string     `json:"authProvider,omitempty"` // e.g. "google", empty for local
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuditFields
}

// GoogleUserInfo holds the subset of the Google userinfo payload the backend consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
