// Package redis stores blobs as plain string values in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vesselflow/ppe-engine/store"
)

// Config holds connection parameters.
type Config struct {
	Addr      string // host:port, required
	Password  string
	DB        int
	KeyPrefix string // default "vesselflow:"
}

// Store implements store.Blob on a Redis server.
type Store struct {
	client *goredis.Client
	prefix string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr required")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "vesselflow:"
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Store{client: client, prefix: prefix}, nil
}

// Driver identifies the backend.
func (s *Store) Driver() store.Driver { return store.DriverRedis }

// Close releases the connection pool.
func (s *Store) Close() error { return s.client.Close() }

// Get returns the value at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Put overwrites the value at key without expiry.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
