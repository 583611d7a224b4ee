package services

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/ident-core/internal/core/domain"
	"github.com/custodia-labs/ident-core/internal/core/ports/driven/mocks"
)

func newTestAuthService() (*mocks.MockUserStore, *mocks.MockSessionStore, *mocks.MockHasher, *mocks.MockTokenProvider, *authService) {
	userStore := mocks.NewMockUserStore()
	sessionStore := mocks.NewMockSessionStore()
	hasher := mocks.NewMockHasher()
	tokenProvider := mocks.NewMockTokenProvider()
	svc := NewAuthService(userStore, sessionStore, hasher, tokenProvider).(*authService)
	return userStore, sessionStore, hasher, tokenProvider, svc
}

func strPtr(s string) *string { return &s }

func registerReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:    "A@X.com",
		Username: "UserOne",
		Password: "secret123",
	}
}

func TestAuthService_Register(t *testing.T) {
	userStore, _, hasher, _, svc := newTestAuthService()

	req := registerReq()
	req.FirstName = strPtr("john")

	resp, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Message != "User successfully created" {
		t.Errorf("unexpected message: %s", resp.Message)
	}
	if resp.User.Email != "a@x.com" {
		t.Errorf("expected stored email a@x.com, got %s", resp.User.Email)
	}
	if resp.User.Username != "userone" {
		t.Errorf("expected stored username userone, got %s", resp.User.Username)
	}
	if resp.User.FirstName == nil || *resp.User.FirstName != "John" {
		t.Error("expected firstName john to normalize to John")
	}
	if resp.User.LastName != nil {
		t.Error("expected omitted lastName to stay absent")
	}

	stored, err := userStore.FindByUsername(context.Background(), "userone")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.PasswordHash == req.Password {
		t.Error("password hash must never equal the plaintext")
	}
	if !hasher.Verify(req.Password, stored.PasswordHash) {
		t.Error("stored hash must verify against the original plaintext")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	_, _, _, _, svc := newTestAuthService()

	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{"malformed email", domain.RegisterRequest{Email: "nope", Username: "userone", Password: "secret123"}},
		{"short username", domain.RegisterRequest{Email: "a@x.com", Username: "usr", Password: "secret123"}},
		{"short password", domain.RegisterRequest{Email: "a@x.com", Username: "userone", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); err != domain.ErrInvalidInput {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	_, _, _, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{"same email different case", domain.RegisterRequest{Email: "a@x.COM", Username: "otheruser", Password: "secret123"}},
		{"same username different case", domain.RegisterRequest{Email: "other@x.com", Username: "USERONE", Password: "secret123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); err != domain.ErrAlreadyExists {
				t.Errorf("expected ErrAlreadyExists, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_CreateRace(t *testing.T) {
	userStore, _, _, _, svc := newTestAuthService()

	// Constraint violation lost past the pre-check stays a duplicate
	userStore.CreateErr = domain.ErrAlreadyExists
	if _, err := svc.Register(context.Background(), registerReq()); err != domain.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Any other store failure is reported generically
	userStore.CreateErr = errors.New("connection reset")
	if _, err := svc.Register(context.Background(), registerReq()); err != domain.ErrPersistence {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	userStore, sessionStore, hasher, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	tokens, err := svc.Login(context.Background(), domain.LoginRequest{
		Username: "UserOne",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be non-empty")
	}
	if tokens.AccessToken == tokens.RefreshToken {
		t.Error("expected access and refresh tokens to be distinct")
	}

	user, _ := userStore.FindByUsername(context.Background(), "userone")
	if user.RefreshTokenHash == nil {
		t.Fatal("expected refresh token hash to be persisted")
	}
	if !hasher.Verify(tokens.RefreshToken, *user.RefreshTokenHash) {
		t.Error("stored hash must verify against the issued refresh token")
	}
	if *user.RefreshTokenHash == tokens.RefreshToken {
		t.Error("refresh token must never be stored in plaintext")
	}

	sessions, _ := sessionStore.ListByUser(context.Background(), user.ID)
	if len(sessions) != 1 {
		t.Errorf("expected 1 session recorded, got %d", len(sessions))
	}
}

func TestAuthService_Login_Rotation(t *testing.T) {
	userStore, _, hasher, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	creds := domain.LoginRequest{Username: "userone", Password: "secret123"}

	first, err := svc.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := svc.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	user, _ := userStore.FindByUsername(context.Background(), "userone")
	if hasher.Verify(first.RefreshToken, *user.RefreshTokenHash) {
		t.Error("previous refresh token must no longer match after rotation")
	}
	if !hasher.Verify(second.RefreshToken, *user.RefreshTokenHash) {
		t.Error("latest refresh token must match the stored hash")
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	_, _, _, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	tests := []struct {
		name string
		req  domain.LoginRequest
	}{
		{"unknown username", domain.LoginRequest{Username: "nobodyhere", Password: "secret123"}},
		{"wrong password", domain.LoginRequest{Username: "userone", Password: "wrongpass1"}},
	}

	// Both causes must be indistinguishable to the caller
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.req); err != domain.ErrInvalidCredentials {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_NoPartialState(t *testing.T) {
	userStore, _, _, tokenProvider, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	creds := domain.LoginRequest{Username: "userone", Password: "secret123"}

	tokenProvider.IssueErr = errors.New("signing failure")
	if tokens, err := svc.Login(context.Background(), creds); err == nil || tokens != nil {
		t.Error("expected failed issuance to fail the login with no tokens")
	}
	user, _ := userStore.FindByUsername(context.Background(), "userone")
	if user.RefreshTokenHash != nil {
		t.Error("expected no refresh hash after failed issuance")
	}

	tokenProvider.IssueErr = nil
	userStore.UpdateErr = errors.New("connection reset")
	if tokens, err := svc.Login(context.Background(), creds); err != domain.ErrPersistence || tokens != nil {
		t.Errorf("expected ErrPersistence and no tokens, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	userStore, _, hasher, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	first, err := svc.Login(context.Background(), domain.LoginRequest{Username: "userone", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	next, err := svc.Refresh(context.Background(), domain.RefreshRequest{RefreshToken: first.RefreshToken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatal("expected a fresh token pair")
	}
	if next.RefreshToken == first.RefreshToken {
		t.Error("expected refresh token to rotate")
	}

	// The consumed refresh token no longer matches the stored hash
	user, _ := userStore.FindByUsername(context.Background(), "userone")
	if hasher.Verify(first.RefreshToken, *user.RefreshTokenHash) {
		t.Error("consumed refresh token must not verify after rotation")
	}
	if _, err := svc.Refresh(context.Background(), domain.RefreshRequest{RefreshToken: first.RefreshToken}); err != domain.ErrInvalidCredentials {
		t.Errorf("expected replayed refresh token to fail, got %v", err)
	}
}

func TestAuthService_Refresh_Invalid(t *testing.T) {
	userStore, _, _, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), domain.RefreshRequest{}); err != domain.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for empty token, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), domain.RefreshRequest{RefreshToken: "garbage"}); err != domain.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for malformed token, got %v", err)
	}

	// A parseable token with no stored hash cannot refresh
	user, _ := userStore.FindByUsername(context.Background(), "userone")
	pair, _ := mocks.NewMockTokenProvider().IssueTokens(domain.Payload{ID: user.ID, Username: user.Username})
	if _, err := svc.Refresh(context.Background(), domain.RefreshRequest{RefreshToken: pair.RefreshToken}); err != domain.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	_, _, _, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	tokens, err := svc.Login(context.Background(), domain.LoginRequest{Username: "userone", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	authCtx, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authCtx.Username != "userone" {
		t.Errorf("expected username userone, got %s", authCtx.Username)
	}

	if _, err := svc.ValidateToken(context.Background(), ""); err != domain.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for empty token, got %v", err)
	}
	if _, err := svc.ValidateToken(context.Background(), "garbage"); err != domain.ErrTokenInvalid {
		t.Errorf("expected ErrTokenInvalid for malformed token, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	userStore, sessionStore, _, _, svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), registerReq()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	tokens, err := svc.Login(context.Background(), domain.LoginRequest{Username: "userone", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), tokens.AccessToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, _ := userStore.FindByUsername(context.Background(), "userone")
	if user.RefreshTokenHash != nil {
		t.Error("expected refresh token hash to be cleared")
	}
	sessions, _ := sessionStore.ListByUser(context.Background(), user.ID)
	if len(sessions) != 0 {
		t.Errorf("expected sessions to be dropped, got %d", len(sessions))
	}

	// No outstanding refresh token can verify after logout
	if _, err := svc.Refresh(context.Background(), domain.RefreshRequest{RefreshToken: tokens.RefreshToken}); err != domain.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials after logout, got %v", err)
	}

	// Invalid tokens are a no-op
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Errorf("expected nil for invalid token, got %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("expected nil for empty token, got %v", err)
	}
}
