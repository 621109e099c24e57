package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
)

func newTestTokenService(deny *stubDenylist, now time.Time) *TokenService {
	svc := NewTokenService("secret", "todo-api", time.Hour, deny, zerolog.Nop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(newStubDenylist(), now)

	issued, err := svc.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if issued.Type != "bearer" {
		t.Fatalf("unexpected type: %s", issued.Type)
	}
	if issued.ExpiresIn != 3600 || !issued.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %+v", issued)
	}

	claims, err := svc.Verify(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-1" || claims.TokenID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_TokensAreUnique(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(newStubDenylist(), now)

	a, _ := svc.Issue(context.Background(), "user-1")
	b, _ := svc.Issue(context.Background(), "user-1")
	if a.Token == b.Token {
		t.Fatal("two tokens issued in the same second must differ")
	}
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(newStubDenylist(), now)
	issued, _ := svc.Issue(context.Background(), "user-1")

	other := NewTokenService("other-secret", "todo-api", time.Hour, newStubDenylist(), zerolog.Nop())
	other.now = svc.now
	foreign, _ := other.Issue(context.Background(), "user-1")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": foreign.Token,
		"alg none":     unsigned,
		"tampered":     issued.Token + "x",
	}
	for name, raw := range cases {
		if _, err := svc.Verify(context.Background(), raw); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(newStubDenylist(), now)
	issued, _ := svc.Issue(context.Background(), "user-1")

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := svc.Verify(context.Background(), issued.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestTokenService_Invalidate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deny := newStubDenylist()
	svc := newTestTokenService(deny, now)
	issued, _ := svc.Issue(context.Background(), "user-1")

	if err := svc.Invalidate(context.Background(), issued.Token); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if _, err := svc.Verify(context.Background(), issued.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
	for _, exp := range deny.revoked {
		if !exp.Equal(now.Add(time.Hour)) {
			t.Fatalf("denylist entry must live until token expiry, got %v", exp)
		}
	}
	if err := svc.Invalidate(context.Background(), issued.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("second invalidate must fail, got %v", err)
	}
}

func TestTokenService_Refresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(newStubDenylist(), now)
	old, _ := svc.Issue(context.Background(), "user-1")

	svc.now = func() time.Time { return now.Add(10 * time.Minute) }
	fresh, claims, err := svc.Refresh(context.Background(), old.Token)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected user: %s", claims.UserID)
	}
	if !fresh.ExpiresAt.After(old.ExpiresAt) {
		t.Fatalf("new token must expire later: old=%v new=%v", old.ExpiresAt, fresh.ExpiresAt)
	}
	if _, err := svc.Verify(context.Background(), old.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("old token must be revoked, got %v", err)
	}
	if _, err := svc.Verify(context.Background(), fresh.Token); err != nil {
		t.Fatalf("new token must verify, got %v", err)
	}
}

func TestTokenService_DenylistFailureFailsClosed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deny := newStubDenylist()
	svc := newTestTokenService(deny, now)
	issued, _ := svc.Issue(context.Background(), "user-1")

	deny.err = errors.New("redis down")
	if _, err := svc.Verify(context.Background(), issued.Token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated when the denylist is unavailable, got %v", err)
	}
}
