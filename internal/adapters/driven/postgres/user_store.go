package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/ident-core/internal/core/domain"
	"github.com/custodia-labs/ident-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserStore = (*UserStore)(nil)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit
const uniqueViolation = "23505"

// UserStore implements driven.UserStore using PostgreSQL
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user and fills its serial ID.
// A unique constraint violation maps to domain.ErrAlreadyExists so a
// creation race lost past the pre-check stays a duplicate, not a crash.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, first_name, last_name, refresh_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		NullString(user.FirstName),
		NullString(user.LastName),
		NullString(user.RefreshTokenHash),
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// FindByID retrieves a user by ID
func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelect + ` WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// FindByUsername retrieves a user by username
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := userSelect + ` WHERE username = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// FindByEmailOrUsername retrieves a user matching either unique field
func (s *UserStore) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	query := userSelect + ` WHERE email = $1 OR username = $2 LIMIT 1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email, username))
}

// UpdateRefreshTokenHash replaces the stored refresh-token digest.
// A nil hash clears the column.
func (s *UserStore) UpdateRefreshTokenHash(ctx context.Context, username string, hash *string) error {
	query := `UPDATE users SET refresh_token_hash = $1, updated_at = $2 WHERE username = $3`

	result, err := s.db.ExecContext(ctx, query, NullString(hash), time.Now(), username)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

const userSelect = `
	SELECT id, email, username, password_hash, first_name, last_name, refresh_token_hash, created_at, updated_at
	FROM users`

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var firstName, lastName, refreshTokenHash sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&firstName,
		&lastName,
		&refreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.FirstName = StrPtr(firstName)
	user.LastName = StrPtr(lastName)
	user.RefreshTokenHash = StrPtr(refreshTokenHash)
	return &user, nil
}
