package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const minRevocationTTL = time.Second

// keyValue is the slice of the Redis client the denylist needs.
type keyValue interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Denylist records revoked token ids backed by Redis.
// Key format: denylist:<jti>, expiring when the token would have.
type Denylist struct {
	client keyValue
	now    func() time.Time
}

// NewDenylist creates a Denylist wrapping the given Redis client.
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client, now: time.Now}
}

// Revoke marks tokenID as revoked until expiresAt.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := d.client.Set(ctx, d.key(tokenID), "1", d.ttl(expiresAt)).Err(); err != nil {
		return fmt.Errorf("denylist revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func (d *Denylist) key(tokenID string) string {
	return "denylist:" + tokenID
}

func (d *Denylist) ttl(expiresAt time.Time) time.Duration {
	ttl := expiresAt.Sub(d.now())
	if ttl < minRevocationTTL {
		return minRevocationTTL
	}
	return ttl
}
