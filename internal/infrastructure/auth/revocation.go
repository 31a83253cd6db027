package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vikalp/backend/internal/infrastructure/config"
)

// RevocationList remembers tokens that were logged out before they expired
type RevocationList interface {
	// Revoke rejects the token identified by key for ttl
	Revoke(ctx context.Context, key string, ttl time.Duration) error
	IsRevoked(ctx context.Context, key string) (bool, error)
}

const revocationKeyPrefix = "invoice:revoked:"

// RedisRevocationList keeps revoked tokens in Redis so every instance sees them
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList connects to Redis and verifies the connection
func NewRedisRevocationList(ctx context.Context, cfg config.RedisConfig) (*RedisRevocationList, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for token revocation: %w", err)
	}
	return &RedisRevocationList{client: client}, nil
}

// NewRedisRevocationListWithClient uses an existing client
func NewRedisRevocationListWithClient(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// Revoke implements RevocationList
func (r *RedisRevocationList) Revoke(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revocationKeyPrefix+key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList
func (r *RedisRevocationList) IsRevoked(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, revocationKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// Close closes the Redis client
func (r *RedisRevocationList) Close() error {
	return r.client.Close()
}

// InMemoryRevocationList is the single-instance revocation list
type InMemoryRevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewInMemoryRevocationList creates an empty list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke implements RevocationList
func (r *InMemoryRevocationList) Revoke(_ context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = r.now().Add(ttl)
	return nil
}

// IsRevoked implements RevocationList. Expired entries are dropped on read.
func (r *InMemoryRevocationList) IsRevoked(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expires, ok := r.entries[key]
	if !ok {
		return false, nil
	}
	if !r.now().Before(expires) {
		delete(r.entries, key)
		return false, nil
	}
	return true, nil
}

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = (*InMemoryRevocationList)(nil)
)
