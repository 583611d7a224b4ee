package driven

// PasswordHasher produces and verifies one-way digests of secrets.
// It is used for passwords and, separately, for refresh tokens before they
// are persisted - a verifiable refresh token is never stored in plaintext.
type PasswordHasher interface {
	// Hash produces a salted one-way digest of the plaintext
	Hash(plaintext string) (string, error)

	// Verify reports whether the plaintext matches the digest.
	// Returns false on mismatch, never an error for a well-formed digest.
	Verify(plaintext, digest string) bool
}
