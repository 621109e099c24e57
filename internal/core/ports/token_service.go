package ports

import (
	"context"
	"time"
)

// TokenType is the scheme clients put in front of the token.
const TokenType = "bearer"

// TokenClaims is what a verified token proves.
type TokenClaims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken is a signed token ready to hand to a client.
type IssuedToken struct {
	Token     string
	Type      string
	ExpiresAt time.Time
	// ExpiresIn is the lifetime in seconds at issue time.
	ExpiresIn int64
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(ctx context.Context, userID string) (*IssuedToken, error)
	Verify(ctx context.Context, token string) (*TokenClaims, error)
	Invalidate(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (*IssuedToken, *TokenClaims, error)
}

// TokenDenylist records revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
