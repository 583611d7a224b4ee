package domain

import (
	"net/mail"
	"strings"
	"time"
)

const (
	// MinUsernameLength is the minimum accepted username length
	MinUsernameLength = 5

	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8

	// AccessTokenTTL is the access token lifetime
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the refresh token lifetime
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Payload carries the identity claims embedded in a signed token.
// It contains no secrets.
type Payload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// TokenPair is the dual-token result of a successful login or refresh.
// Both tokens are opaque signed strings; neither is persisted (only the
// refresh token's hash is, on the User).
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest represents a registration attempt
type RegisterRequest struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Validate rejects malformed input before it reaches the core flow.
// It returns ErrInvalidInput on the first violation.
func (r RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return ErrInvalidInput
	}
	if len(strings.TrimSpace(r.Username)) < MinUsernameLength {
		return ErrInvalidInput
	}
	if len(r.Password) < MinPasswordLength {
		return ErrInvalidInput
	}
	return nil
}

// RegisterResponse is returned after successful registration
type RegisterResponse struct {
	Message string          `json:"message"`
	User    *RegisteredUser `json:"user"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate rejects empty credentials
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return ErrInvalidInput
	}
	return nil
}

// RefreshRequest represents a token refresh attempt
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthContext contains authenticated user info for request context
type AuthContext struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Session records an issued login for inspection and logout.
// Sessions are advisory: access-token validation is stateless.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
