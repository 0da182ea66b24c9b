package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenRevoker keeps revoked token ids in Redis with a TTL matching the token's expiry
type RedisTokenRevoker struct {
	client *redis.Client
	prefix string
}

var _ TokenRevoker = (*RedisTokenRevoker)(nil)

func NewRedisTokenRevoker(client *redis.Client) *RedisTokenRevoker {
	return &RedisTokenRevoker{client: client, prefix: "auth:revoked:"}
}

func (r *RedisTokenRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	return r.client.Set(ctx, r.prefix+tokenID, 1, ttl).Err()
}

func (r *RedisTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
