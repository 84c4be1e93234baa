// Package redis provides a Redis implementation of the
// apiclient.ValidatorStore interface, for deployments where many worker
// processes share one conditional-GET cache (CLI daemons, server-side
// renderers). Validators expire via TTL rather than explicit eviction.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store implements apiclient.ValidatorStore using Redis.
type Store struct {
	client redis.UniversalClient
	config Config
}

// Config holds Redis store configuration.
type Config struct {
	// KeyPrefix is prepended to all Redis keys (default: "intellipm:etag:")
	KeyPrefix string

	// TTL is the expiration for validator keys (default: 24 hours).
	// Stale validators are harmless — the backend answers a full 200 for an
	// unknown ETag — so the TTL only bounds memory.
	TTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		KeyPrefix: "intellipm:etag:",
		TTL:       24 * time.Hour,
	}
}

// New creates a new Redis validator store.
// The client can be *redis.Client, *redis.ClusterClient, or *redis.Ring.
func New(client redis.UniversalClient, config Config) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "intellipm:etag:"
	}
	if config.TTL == 0 {
		config.TTL = 24 * time.Hour
	}
	return &Store{client: client, config: config}, nil
}

// Get implements apiclient.ValidatorStore.
func (s *Store) Get(ctx context.Context, endpoint string) (string, error) {
	value, err := s.client.Get(ctx, s.key(endpoint)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get validator: %w", err)
	}
	return value, nil
}

// Set implements apiclient.ValidatorStore.
func (s *Store) Set(ctx context.Context, endpoint, validator string) error {
	if err := s.client.Set(ctx, s.key(endpoint), validator, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set validator: %w", err)
	}
	return nil
}

// Delete implements apiclient.ValidatorStore.
func (s *Store) Delete(ctx context.Context, endpoint string) error {
	if err := s.client.Del(ctx, s.key(endpoint)).Err(); err != nil {
		return fmt.Errorf("failed to delete validator: %w", err)
	}
	return nil
}

// Clear implements apiclient.ValidatorStore. It scans for all keys under
// the configured prefix and removes them in batches.
func (s *Store) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.config.KeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear validators: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan validators: %w", err)
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to clear validators: %w", err)
		}
	}
	return nil
}

func (s *Store) key(endpoint string) string {
	return s.config.KeyPrefix + endpoint
}
