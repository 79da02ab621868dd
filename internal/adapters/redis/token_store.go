package redis

// Package redis provides Redis-based adapters for estates-web.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dietiestates/estates-web/internal/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore keeps each client's access token in Redis.
// Keys expire together with the token they hold.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewTokenStore creates a new Redis-based token store.
func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return NewTokenStoreWithPrefix(client, "token:")
}

// NewTokenStoreWithPrefix creates a Redis token store with a custom key prefix.
func NewTokenStoreWithPrefix(client redis.UniversalClient, prefix string) *TokenStore {
	return &TokenStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Save stores token for clientID. A zero expiresAt keeps the key until deleted.
func (s *TokenStore) Save(ctx context.Context, clientID, token string, expiresAt time.Time) error {
	if clientID == "" {
		return errors.New("client ID cannot be empty")
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}

	var ttl time.Duration
	if !expiresAt.IsZero() {
		ttl = expiresAt.Sub(s.now())
		if ttl <= 0 {
			return errors.New("token is expired")
		}
	}

	if err := s.client.Set(ctx, s.prefix+clientID, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Load returns the stored token or ports.ErrTokenNotFound.
func (s *TokenStore) Load(ctx context.Context, clientID string) (string, error) {
	if clientID == "" {
		return "", ports.ErrTokenNotFound
	}

	token, err := s.client.Get(ctx, s.prefix+clientID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrTokenNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return token, nil
}

// Delete removes the token of clientID. Deleting a missing key is not an error.
func (s *TokenStore) Delete(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+clientID).Err()
}
