package services

import (
	"context"
	"time"

	"github.com/NovaBankHQ/nova_banking_app/internal/core/domain"
	"github.com/NovaBankHQ/nova_banking_app/internal/dto"
)

// UserSvcFacade manages banking customer identities. Authentication flows live
// in the token and OAuth services; this facade only stores and retrieves users.
type UserSvcFacade interface {
	// RegisterUser creates a local user with a bcrypt password hash.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies email/password credentials and returns the
	// user, or apperrors.ErrUnauthorized.
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)

	// GetUserByID retrieves a specific user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindOrCreateOAuthUser retrieves the user matching the external identity,
	// creating one on first sign-in.
	FindOrCreateOAuthUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)

	// StoreRefreshToken persists the hash and expiry of an issued refresh token.
	StoreRefreshToken(ctx context.Context, userID string, tokenHash string, expiry time.Time) error
}
