package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "123456") {
		t.Error("expected password to match")
	}
	if CheckPassword(hash, "654321") {
		t.Error("wrong password matched")
	}
}

func TestTokenIssuer_AccessToken(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	token, err := issuer.IssueAccess(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := issuer.ParseAccess(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Errorf("expected subject 42, got %d", id)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret, "HS256", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.IssueAccess(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.ParseAccess(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestTokenIssuer_RejectsWrongPurposeAndSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret, "HS256", time.Minute)
	other, _ := NewTokenIssuer(strings.Repeat("x", 32), "HS256", time.Minute)

	reset, _ := issuer.IssueReset(7)
	if _, err := issuer.ParseAccess(reset); err == nil {
		t.Error("reset token accepted as access token")
	}
	if id, err := issuer.ParseReset(reset); err != nil || id != 7 {
		t.Errorf("expected reset token for 7, got %d, %v", id, err)
	}

	access, _ := other.IssueAccess(7)
	if _, err := issuer.ParseAccess(access); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestNewTokenIssuer_RejectsNonHMAC(t *testing.T) {
	if _, err := NewTokenIssuer(testSecret, "RS256", time.Minute); err == nil {
		t.Fatal("expected RS256 to be rejected")
	}
}

func TestNewRefreshToken(t *testing.T) {
	a, hashA, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, _, _ := NewRefreshToken()

	if a == b {
		t.Error("tokens must be unique")
	}
	if hashA != HashRefreshToken(a) {
		t.Error("hash must be deterministic")
	}
	if hashA == a {
		t.Error("hash must differ from the plain token")
	}
}
