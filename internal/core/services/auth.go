package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/custodia-labs/ident-core/internal/core/domain"
	"github.com/custodia-labs/ident-core/internal/core/ports/driven"
	"github.com/custodia-labs/ident-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	userStore     driven.UserStore
	sessionStore  driven.SessionStore
	hasher        driven.PasswordHasher
	tokenProvider driven.TokenProvider
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userStore driven.UserStore,
	sessionStore driven.SessionStore,
	hasher driven.PasswordHasher,
	tokenProvider driven.TokenProvider,
) driving.AuthService {
	return &authService{
		userStore:     userStore,
		sessionStore:  sessionStore,
		hasher:        hasher,
		tokenProvider: tokenProvider,
	}
}

// Register creates a new account after checking email/username uniqueness.
// The failure never says which field collided.
func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := domain.NormalizeCredential(req.Email)
	username := domain.NormalizeCredential(req.Username)

	// Pre-check both unique fields in one lookup
	_, err := s.userStore.FindByEmailOrUsername(ctx, email, username)
	if err == nil {
		return nil, domain.ErrAlreadyExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrPersistence
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.ErrPersistence
	}

	now := time.Now()
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    domain.TitleCaseName(req.FirstName),
		LastName:     domain.TitleCaseName(req.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store's uniqueness constraint is the backstop for a creation race
	// that slipped past the pre-check
	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, domain.ErrPersistence
	}

	return &domain.RegisterResponse{
		Message: "User successfully created",
		User:    user.ToRegistered(),
	}, nil
}

// Login verifies credentials and issues a fresh token pair.
// An unknown username and a wrong password produce the same failure.
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userStore.FindByUsername(ctx, domain.NormalizeCredential(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrPersistence
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueAndRotate(ctx, user)
}

// Refresh exchanges a valid refresh token for a new pair.
// The presented token must still match the stored hash; rotation on every
// issuance means only the most recent refresh token can succeed.
func (s *authService) Refresh(ctx context.Context, req domain.RefreshRequest) (*domain.TokenPair, error) {
	if req.RefreshToken == "" {
		return nil, domain.ErrTokenInvalid
	}

	payload, err := s.tokenProvider.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.FindByUsername(ctx, domain.NormalizeCredential(payload.Username))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if user.RefreshTokenHash == nil || !s.hasher.Verify(req.RefreshToken, *user.RefreshTokenHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueAndRotate(ctx, user)
}

// ValidateToken verifies an access token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	payload, err := s.tokenProvider.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.AuthContext{
		UserID:   payload.ID,
		Username: payload.Username,
	}, nil
}

// Logout clears the stored refresh-token hash so no outstanding refresh
// token can verify, and drops the user's sessions
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	payload, err := s.tokenProvider.ParseAccessToken(token)
	if err != nil {
		return nil // Already invalid, nothing to do
	}

	if err := s.userStore.UpdateRefreshTokenHash(ctx, payload.Username, nil); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.ErrPersistence
	}

	return s.sessionStore.DeleteByUser(ctx, payload.ID)
}

// CurrentUser returns the profile of an authenticated user
func (s *authService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrPersistence
	}
	return user, nil
}

// issueAndRotate generates a token pair, persists the refresh token's hash,
// and records the session. If any step fails no tokens are returned - the
// login is treated as failed even after successful verification.
func (s *authService) issueAndRotate(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	payload := domain.Payload{
		ID:       user.ID,
		Username: user.Username,
	}

	tokens, err := s.tokenProvider.IssueTokens(payload)
	if err != nil {
		return nil, err
	}

	refreshHash, err := s.hasher.Hash(tokens.RefreshToken)
	if err != nil {
		return nil, domain.ErrPersistence
	}

	if err := s.userStore.UpdateRefreshTokenHash(ctx, user.Username, &refreshHash); err != nil {
		return nil, domain.ErrPersistence
	}

	// Session bookkeeping is advisory; a failed write never blocks the login
	now := time.Now()
	_ = s.sessionStore.Save(ctx, &domain.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: now.Add(domain.RefreshTokenTTL),
		CreatedAt: now,
	})

	return &tokens, nil
}

func generateSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
