package models

import "time"

// User is the DB representation of a banking customer.
type User struct {
	UserID                 string     `db:"user_id"`
	Name                   string     `db:"name"`
	Email                  string     `db:"email"`
	PasswordHash           string     `db:"password_hash"` // Nullable for external auth
	IsAdmin                bool       `db:"is_admin"`
	WelcomeBonusGranted    bool       `db:"welcome_bonus_granted"`
	AuthProvider           string     `db:"auth_provider"` // Nullable
	RefreshTokenHash       string     `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	AuditFields
}
