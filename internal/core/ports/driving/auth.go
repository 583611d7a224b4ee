package driving

import (
	"context"

	"github.com/custodia-labs/ident-core/internal/core/domain"
)

// AuthService handles the credential lifecycle: registration, login with
// dual-token issuance, refresh rotation, and logout.
type AuthService interface {
	// Register creates a new account after validating uniqueness
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)

	// Login verifies credentials and issues a fresh token pair, rotating
	// the stored refresh-token hash
	Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenPair, error)

	// Refresh exchanges a valid refresh token for a new pair, rotating the
	// stored hash so the presented token cannot be replayed
	Refresh(ctx context.Context, req domain.RefreshRequest) (*domain.TokenPair, error)

	// ValidateToken verifies an access token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// Logout clears the stored refresh-token hash and drops the user's
	// sessions. Safe to call with an already-invalid token.
	Logout(ctx context.Context, token string) error

	// CurrentUser returns the profile of an authenticated user
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)
}
