package driven

import "github.com/custodia-labs/ident-core/internal/core/domain"

// TokenProvider signs and verifies the access/refresh token pair.
// The two tokens use distinct signing secrets and distinct expirations.
// Tokens are opaque strings to every other component.
type TokenProvider interface {
	// IssueTokens produces a signed access/refresh pair from the payload
	IssueTokens(payload domain.Payload) (domain.TokenPair, error)

	// ParseAccessToken verifies an access token and returns its payload.
	// Expired or tampered tokens are rejected.
	ParseAccessToken(token string) (*domain.Payload, error)

	// ParseRefreshToken verifies a refresh token and returns its payload
	ParseRefreshToken(token string) (*domain.Payload, error)
}
