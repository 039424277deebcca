// Package tokenstore persists the X OAuth2 refresh token in Redis so the
// rotated token survives between runs.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gotweet/internal/logger"
)

const (
	refreshTokenKey = "gotweet:token:refresh"

	opTimeout = 5 * time.Second
)

// ErrNoToken means no refresh token has been stored yet. Seed one with
// the token command after authorizing the app.
var ErrNoToken = errors.New("no refresh token stored")

// Store reads and writes the single refresh token slot.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// NewStore creates a Store on an existing Redis client.
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// Get returns the stored refresh token, or ErrNoToken when the slot is
// empty.
func (s *Store) Get(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	token, err := s.client.Get(ctx, refreshTokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		s.logger.Error("Redis error reading refresh token",
			logger.String("redis_key", refreshTokenKey),
			logger.Error(err),
		)
		return "", fmt.Errorf("reading refresh token: %w", err)
	}

	return token, nil
}

// Save overwrites the stored refresh token. The slot carries no TTL; a
// token stays until the next rotation replaces it.
func (s *Store) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("refresh token is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, refreshTokenKey, token, 0).Err(); err != nil {
		s.logger.Error("Redis error storing refresh token",
			logger.String("redis_key", refreshTokenKey),
			logger.Error(err),
		)
		return fmt.Errorf("storing refresh token: %w", err)
	}

	s.logger.Debug("Refresh token stored",
		logger.String("redis_key", refreshTokenKey),
	)

	return nil
}

// Delete clears the refresh token slot.
func (s *Store) Delete(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.client.Del(ctx, refreshTokenKey).Err(); err != nil {
		return fmt.Errorf("deleting refresh token: %w", err)
	}

	return nil
}
