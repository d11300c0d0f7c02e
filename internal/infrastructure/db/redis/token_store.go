package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snapboard/webclient/internal/core/ports"
)

// TokenStore keeps bearer tokens in Redis.
// Key format: session:token:<session_key>
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore wraps client. A ttl of zero keeps tokens until deleted.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

var _ ports.TokenStore = (*TokenStore)(nil)

func (s *TokenStore) Get(ctx context.Context, key string) (string, error) {
	token, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("token get: %w", err)
	}
	return token, nil
}

func (s *TokenStore) Set(ctx context.Context, key, token string) error {
	if err := s.client.Set(ctx, s.key(key), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("token set: %w", err)
	}
	return nil
}

func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("token delete: %w", err)
	}
	return nil
}

func (s *TokenStore) key(sessionKey string) string {
	return "session:token:" + sessionKey
}
