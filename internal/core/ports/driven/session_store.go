package driven

import (
	"context"

	"github.com/custodia-labs/ident-core/internal/core/domain"
)

// SessionStore records issued logins (Redis or PostgreSQL).
// Sessions are advisory bookkeeping for logout and inspection; access-token
// validation never consults them.
type SessionStore interface {
	// Save stores a session with TTL based on ExpiresAt
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, id string) (*domain.Session, error)

	// DeleteByUser deletes all sessions for a user (logout)
	DeleteByUser(ctx context.Context, userID int64) error

	// ListByUser lists all active sessions for a user
	ListByUser(ctx context.Context, userID int64) ([]*domain.Session, error)

	// DeleteExpired removes sessions past their expiry and returns the
	// number removed. Backends with native TTL may report zero.
	DeleteExpired(ctx context.Context) (int64, error)
}
