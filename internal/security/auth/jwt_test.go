package auth

import (
	"testing"
	"time"
)

func TestTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", "harbormaster", time.Hour); err != ErrNoSecret {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}

func TestIssueAndVerify(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "harbormaster", time.Hour)
	if err != nil {
		t.Fatalf("token manager failed: %v", err)
	}

	token, err := tm.Issue("u-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "alice@example.com" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "harbormaster" {
		t.Fatalf("unexpected issuer: %q", claims.Issuer)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tm1, _ := NewTokenManager("secret-one", "harbormaster", time.Hour)
	tm2, _ := NewTokenManager("secret-two", "harbormaster", time.Hour)

	token, err := tm1.Issue("u-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := tm2.Verify(token); err == nil {
		t.Fatalf("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), issuer: "harbormaster", ttl: -time.Minute}

	token, err := tm.Issue("u-1", "alice@example.com", "alice")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := tm.Verify(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm, _ := NewTokenManager("test-secret", "harbormaster", time.Hour)
	if _, err := tm.Verify("not.a.token"); err == nil {
		t.Fatalf("expected malformed token to be rejected")
	}
}

func TestRefreshRenewsExpiry(t *testing.T) {
	tm, _ := NewTokenManager("test-secret", "harbormaster", time.Hour)

	token, _ := tm.Issue("u-1", "alice@example.com", "alice")
	claims, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	fresh, err := tm.Refresh(claims)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	freshClaims, err := tm.Verify(fresh)
	if err != nil {
		t.Fatalf("verify refreshed failed: %v", err)
	}
	if freshClaims.UserID != "u-1" || freshClaims.Email != "alice@example.com" {
		t.Fatalf("identity lost on refresh: %+v", freshClaims)
	}
	if freshClaims.ExpiresAt.Before(claims.ExpiresAt.Time) {
		t.Fatalf("refreshed token should not expire earlier than the original")
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("expected token, got %q err=%v", token, err)
	}
	if _, err := ExtractToken("abc.def.ghi"); err == nil {
		t.Fatalf("expected error for missing scheme")
	}
	if _, err := ExtractToken("Basic abc"); err == nil {
		t.Fatalf("expected error for wrong scheme")
	}
}
