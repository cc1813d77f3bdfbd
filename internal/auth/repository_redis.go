package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository is a Redis-backed session repository for production
// use. Entries expire via Redis TTL.
type RedisSessionRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSessionRepository creates a Redis session repository. All keys are
// stored under the given prefix.
func NewRedisSessionRepository(client redis.UniversalClient, prefix string) *RedisSessionRepository {
	return &RedisSessionRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisSessionRepository) ReadClaims(ctx context.Context) (*IdentityClaims, error) {
	data, err := r.client.Get(ctx, r.prefix+KeyUser).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var claims IdentityClaims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	return &claims, nil
}

func (r *RedisSessionRepository) WriteClaims(ctx context.Context, claims *IdentityClaims, ttl time.Duration) error {
	data, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("marshal claims: %w", err)
	}

	return r.client.Set(ctx, r.prefix+KeyUser, data, ttl).Err()
}

func (r *RedisSessionRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.prefix+KeyUser).Err()
}

func (r *RedisSessionRepository) SetFlag(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *RedisSessionRepository) TakeFlag(ctx context.Context, key string) (string, error) {
	value, err := r.client.GetDel(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis getdel: %w", err)
	}
	return value, nil
}
