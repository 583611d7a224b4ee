package mocks

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/ident-core/internal/core/domain"
)

// MockTokenProvider is a mock implementation of TokenProvider for testing.
// Tokens encode the payload and an issue counter so each issuance yields a
// distinct, parseable pair.
type MockTokenProvider struct {
	mu      sync.Mutex
	counter int

	// IssueErr forces IssueTokens to fail when set
	IssueErr error
}

// NewMockTokenProvider creates a new MockTokenProvider
func NewMockTokenProvider() *MockTokenProvider {
	return &MockTokenProvider{}
}

func (m *MockTokenProvider) IssueTokens(payload domain.Payload) (domain.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IssueErr != nil {
		return domain.TokenPair{}, m.IssueErr
	}
	m.counter++
	return domain.TokenPair{
		AccessToken:  fmt.Sprintf("access|%d|%s|%d", payload.ID, payload.Username, m.counter),
		RefreshToken: fmt.Sprintf("refresh|%d|%s|%d", payload.ID, payload.Username, m.counter),
	}, nil
}

func (m *MockTokenProvider) ParseAccessToken(token string) (*domain.Payload, error) {
	return parseMockToken(token, "access")
}

func (m *MockTokenProvider) ParseRefreshToken(token string) (*domain.Payload, error) {
	return parseMockToken(token, "refresh")
}

func parseMockToken(token, kind string) (*domain.Payload, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 4 || parts[0] != kind {
		return nil, domain.ErrTokenInvalid
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Payload{ID: id, Username: parts[2]}, nil
}
