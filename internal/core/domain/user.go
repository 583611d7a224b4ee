package domain

import (
	"strings"
	"time"
	"unicode"
)

// User represents a registered account.
// Email and Username are stored lowercase and are unique under
// case-insensitive comparison. RefreshTokenHash holds the bcrypt digest of
// the most recently issued refresh token; only that token can ever verify.
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"` // Never serialize
	FirstName        *string   `json:"first_name,omitempty"`
	LastName         *string   `json:"last_name,omitempty"`
	RefreshTokenHash *string   `json:"-"` // Never serialize
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RegisteredUser is the safe view returned after registration.
// It never carries the id or any credential material.
type RegisteredUser struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// ToRegistered converts a User to its registration view.
func (u *User) ToRegistered() *RegisteredUser {
	return &RegisteredUser{
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NormalizeCredential lowercases and trims an email or username for
// comparison and storage. Normalization happens in the core, not the store.
func NormalizeCredential(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TitleCaseName normalizes an optional name to first-rune-upper,
// remainder-lower. Nil and empty values stay absent.
func TitleCaseName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	runes := []rune(trimmed)
	out := string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
	return &out
}
