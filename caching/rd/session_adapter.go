package rd

import (
	"context"
	"errors"
	"time"

	"github.com/beneficios/backoffice/session"
	redis "github.com/redis/go-redis/v9"
)

type sessionRevocationCacheAdapter struct {
	client *redis.Client
}

// NewSessionRevocationCache adapts a redis client to the session package's
// revocation cache contract.
func NewSessionRevocationCache(client *redis.Client) session.RevocationCache {
	if client == nil {
		return nil
	}
	return sessionRevocationCacheAdapter{client: client}
}

func (a sessionRevocationCacheAdapter) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return a.client.Set(ctx, key, value, ttl).Err()
}

func (a sessionRevocationCacheAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := a.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", session.ErrRevocationCacheMiss
		}
		return "", err
	}
	return val, nil
}
