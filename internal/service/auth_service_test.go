package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/security/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *auth.TokenManager) {
	t.Helper()
	repo := newMemUserRepo()
	users := NewUserService(repo, nil)
	if _, err := users.Create("alice", "alice@example.com", "Password123"); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	tokens, err := auth.NewTokenManager("test-secret", "harbormaster", time.Hour)
	if err != nil {
		t.Fatalf("token manager failed: %v", err)
	}
	return NewAuthService(repo, tokens, nil), tokens
}

func TestLogin(t *testing.T) {
	s, tokens := newAuthFixture(t)

	result, err := s.Login("Alice@Example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Message != "authenticate_succeeded" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if !strings.HasPrefix(result.Token, "Bearer ") {
		t.Fatalf("token missing Bearer prefix: %q", result.Token)
	}
	if result.User.Email != "alice@example.com" || result.User.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", result.User)
	}

	// The issued token round-trips through verification with the same
	// identity.
	claims, err := tokens.Verify(strings.TrimPrefix(result.Token, "Bearer "))
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Email != "alice@example.com" || claims.UserID != result.User.ID {
		t.Fatalf("claims do not match identity: %+v", claims)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	s, _ := newAuthFixture(t)

	if _, err := s.Login("nobody@example.com", "Password123"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s, _ := newAuthFixture(t)

	if _, err := s.Login("alice@example.com", "WrongPass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
