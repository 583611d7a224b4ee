package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/ident-core/internal/core/domain"
	"github.com/custodia-labs/ident-core/internal/core/ports/driven"
)

// Ensure TokenProvider implements the port
var _ driven.TokenProvider = (*TokenProvider)(nil)

// tokenClaims wraps domain.Payload for JWT compatibility
type tokenClaims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenProvider signs HS256 access and refresh tokens with two distinct
// secrets and two distinct lifetimes
type TokenProvider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenProvider creates a token provider with the standard lifetimes
// (15 minutes access, 7 days refresh)
func NewTokenProvider(accessSecret, refreshSecret string) *TokenProvider {
	return &TokenProvider{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     domain.AccessTokenTTL,
		refreshTTL:    domain.RefreshTokenTTL,
	}
}

// IssueTokens produces a signed access/refresh pair from the payload
func (p *TokenProvider) IssueTokens(payload domain.Payload) (domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := p.sign(payload, p.accessSecret, now, p.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := p.sign(payload, p.refreshSecret, now, p.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ParseAccessToken validates an access token and extracts its payload
func (p *TokenProvider) ParseAccessToken(token string) (*domain.Payload, error) {
	return p.parse(token, p.accessSecret)
}

// ParseRefreshToken validates a refresh token and extracts its payload
func (p *TokenProvider) ParseRefreshToken(token string) (*domain.Payload, error) {
	return p.parse(token, p.refreshSecret)
}

func (p *TokenProvider) sign(payload domain.Payload, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		ID:       payload.ID,
		Username: payload.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (p *TokenProvider) parse(tokenString string, secret []byte) (*domain.Payload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Payload{
		ID:       claims.ID,
		Username: claims.Username,
	}, nil
}
