package auth

import (
	"testing"
	"time"
)

func newTestService(secret string) *TokenService {
	return NewTokenService(TokenConfig{
		Secret:     secret,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService("super-secret")

	tok, exp, err := svc.IssueAccessToken("alice@example.com")
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", exp)
	}

	email, err := svc.DecodeAccessToken(tok)
	if err != nil {
		t.Fatalf("DecodeAccessToken error: %v", err)
	}
	if email != "alice@example.com" {
		t.Fatalf("subject mismatch: got %q", email)
	}
}

func TestDecodeAccessToken_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(TokenConfig{
		Secret:     "secret",
		AccessTTL:  -1 * time.Second,
		RefreshTTL: time.Hour,
	})

	tok, _, err := svc.IssueAccessToken("a@x.com")
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	if _, err := svc.DecodeAccessToken(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestDecodeAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := newTestService("right-secret").IssueAccessToken("a@x.com")
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	if _, err := newTestService("wrong-secret").DecodeAccessToken(tok); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestDecode_KindMismatch(t *testing.T) {
	t.Parallel()

	svc := newTestService("k")

	refresh, _, err := svc.IssueRefreshToken("a@x.com")
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	if _, err := svc.DecodeAccessToken(refresh); err != ErrInvalidToken {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	access, _, err := svc.IssueAccessToken("a@x.com")
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}
	if _, err := svc.DecodeRefreshToken(access); err != ErrInvalidToken {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestDecode_EmptySubject(t *testing.T) {
	t.Parallel()

	svc := newTestService("k")

	// Both decode paths share one contract: a token without a subject is
	// rejected, for refresh tokens as much as for access tokens.
	tok, _, err := svc.IssueRefreshToken("")
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	if _, err := svc.DecodeRefreshToken(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty subject, got %v", err)
	}
}

func TestDecodeAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := newTestService("k").DecodeAccessToken("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
