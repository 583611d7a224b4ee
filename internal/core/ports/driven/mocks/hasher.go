package mocks

import "errors"

const mockDigestPrefix = "digest:"

// MockHasher is a mock implementation of PasswordHasher for testing.
// Digests are the plaintext behind a fixed prefix, so tests can assert the
// digest never equals the plaintext without paying bcrypt cost.
type MockHasher struct {
	// FailHash forces Hash to fail when set
	FailHash bool
}

// NewMockHasher creates a new MockHasher
func NewMockHasher() *MockHasher {
	return &MockHasher{}
}

func (m *MockHasher) Hash(plaintext string) (string, error) {
	if m.FailHash {
		return "", errors.New("hash failure")
	}
	return mockDigestPrefix + plaintext, nil
}

func (m *MockHasher) Verify(plaintext, digest string) bool {
	return digest == mockDigestPrefix+plaintext
}
