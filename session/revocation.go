package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"
)

const DefaultRevocationKeyPrefix = "session:revoked:"
const DefaultRevocationNamespace = "default"

// RevocationStore records tokens that were signed out before their natural
// expiry, so the navigation gate can reject a cookie that is still
// structurally valid.
type RevocationStore interface {
	Revoke(ctx context.Context, key string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, key string) (bool, error)
}

type RevocationCache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type cacheRevocationStore struct {
	cache     RevocationCache
	keyPrefix string
	namespace string
}

func NewRevocationStore(cache RevocationCache, keyPrefix string) RevocationStore {
	return NewRevocationStoreWithNamespace(cache, keyPrefix, "")
}

func NewRevocationStoreWithNamespace(cache RevocationCache, keyPrefix string, namespace string) RevocationStore {
	if keyPrefix == "" {
		keyPrefix = DefaultRevocationKeyPrefix
	}
	ns := strings.TrimSpace(namespace)
	if ns == "" {
		ns = DefaultRevocationNamespace
	}
	return &cacheRevocationStore{cache: cache, keyPrefix: keyPrefix, namespace: ns}
}

func (r *cacheRevocationStore) Revoke(ctx context.Context, key string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past its expiry; nothing left to revoke.
		return nil
	}
	return r.cache.Set(ctx, r.key(key), "1", ttl)
}

func (r *cacheRevocationStore) IsRevoked(ctx context.Context, key string) (bool, error) {
	_, err := r.cache.Get(ctx, r.key(key))
	if err != nil {
		if errors.Is(err, ErrRevocationCacheMiss) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *cacheRevocationStore) key(key string) string {
	return r.keyPrefix + r.namespace + ":" + key
}

// RevokeToken marks tokenValue revoked until its natural expiry. Tokens
// without an expiry cannot be revoked through a TTL'd cache and are rejected
// with ErrMissingTokenExp.
func RevokeToken(ctx context.Context, store RevocationStore, tokenValue string) error {
	if store == nil {
		return ErrRevocationStoreNotConfigured
	}
	claims, err := Codec{}.Decode(tokenValue)
	if err != nil {
		return err
	}
	if !claims.HasExpiry() {
		return ErrMissingTokenExp
	}
	return store.Revoke(ctx, revocationKey(claims, tokenValue), claims.ExpiresAt)
}

// TokenRevoked reports whether tokenValue was revoked. Malformed tokens are
// not revoked, they are simply invalid; the caller's validation handles them.
func TokenRevoked(ctx context.Context, store RevocationStore, tokenValue string) (bool, error) {
	if store == nil {
		return false, nil
	}
	claims, err := Codec{}.Decode(tokenValue)
	if err != nil {
		return false, nil
	}
	return store.IsRevoked(ctx, revocationKey(claims, tokenValue))
}

// revocationKey prefers the token's jti; tokens issued without one are keyed
// by a digest of the full token string instead.
func revocationKey(claims Claims, tokenValue string) string {
	if claims.JTI != "" {
		return claims.JTI
	}
	sum := sha256.Sum256([]byte(tokenValue))
	return hex.EncodeToString(sum[:])
}

type inMemoryRevocationEntry struct {
	value     string
	expiresAt time.Time
}

type inMemoryRevocationCache struct {
	mu    sync.RWMutex
	items map[string]inMemoryRevocationEntry
	now   func() time.Time
}

func NewInMemoryRevocationCache() RevocationCache {
	return &inMemoryRevocationCache{
		items: make(map[string]inMemoryRevocationEntry),
		now:   time.Now,
	}
}

func (c *inMemoryRevocationCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	c.items[key] = inMemoryRevocationEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *inMemoryRevocationCache) Get(_ context.Context, key string) (string, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrRevocationCacheMiss
	}
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", ErrRevocationCacheMiss
	}
	return entry.value, nil
}
