package driven

import (
	"context"

	"github.com/custodia-labs/ident-core/internal/core/domain"
)

// UserStore handles user persistence (PostgreSQL).
// Callers pass email/username already normalized to lowercase; the store
// compares exact strings.
type UserStore interface {
	// Create inserts a new user and fills its ID.
	// Returns domain.ErrAlreadyExists if a uniqueness constraint is
	// violated concurrently (race past the pre-check).
	Create(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// FindByUsername retrieves a user by username
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmailOrUsername retrieves a user matching either field,
	// used for the pre-registration uniqueness check
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)

	// UpdateRefreshTokenHash replaces the stored refresh-token digest for a
	// user. A nil hash clears it. Idempotent.
	UpdateRefreshTokenHash(ctx context.Context, username string, hash *string) error
}
