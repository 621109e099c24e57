package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const defaultTokenTTL = 60 * time.Minute

// tokenClaims is the signed payload. sub carries the user id and jti the
// revocation handle.
type tokenClaims struct {
	jwt.RegisteredClaims
}

// TokenService issues HS256 bearer tokens and checks them against a denylist.
type TokenService struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	denylist ports.TokenDenylist
	log      zerolog.Logger
	now      func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration, denylist ports.TokenDenylist, log zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		denylist: denylist,
		log:      log,
		now:      time.Now,
	}
}

// Issue signs a new token for userID.
func (s *TokenService) Issue(_ context.Context, userID string) (*ports.IssuedToken, error) {
	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &ports.IssuedToken{
		Token:     signed,
		Type:      ports.TokenType,
		ExpiresAt: exp,
		ExpiresIn: int64(s.ttl / time.Second),
	}, nil
}

// Verify checks signature, algorithm, time window and the denylist. Every
// failure is reported as domain.ErrUnauthenticated.
func (s *TokenService) Verify(ctx context.Context, raw string) (*ports.TokenClaims, error) {
	claims, err := s.parse(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrUnauthenticated
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.log.Warn().Err(err).Msg("denylist lookup failed, rejecting token")
		return nil, domain.ErrUnauthenticated
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// Invalidate revokes a verifying token until its natural expiry.
func (s *TokenService) Invalidate(ctx context.Context, raw string) error {
	claims, err := s.Verify(ctx, raw)
	if err != nil {
		return err
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Refresh rotates a token: the old one is revoked and a new one issued for
// the same user.
func (s *TokenService) Refresh(ctx context.Context, raw string) (*ports.IssuedToken, *ports.TokenClaims, error) {
	claims, err := s.Verify(ctx, raw)
	if err != nil {
		return nil, nil, err
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return nil, nil, fmt.Errorf("revoke token: %w", err)
	}

	issued, err := s.Issue(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return issued, claims, nil
}

func (s *TokenService) parse(raw string) (*ports.TokenClaims, error) {
	if raw == "" {
		return nil, errors.New("empty token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &tokenClaims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token is missing sub or jti")
	}

	out := &ports.TokenClaims{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
