package repositories

import (
	"context"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email, or apperrors.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hash and expiry of a user's refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error
}

// WelcomeBonusClaimer guards the one-time welcome credit.
type WelcomeBonusClaimer interface {
	// ClaimWelcomeBonusInTx atomically flips welcome_bonus_granted from false
	// to true within the given transaction. Returns true when this call won
	// the claim, false when the flag was already set.
	ClaimWelcomeBonusInTx(ctx context.Context, tx pgx.Tx, userID string, now time.Time) (bool, error)
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	WelcomeBonusClaimer
}
