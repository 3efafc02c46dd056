// Package redis implements docstore.Store on a redis instance. Documents
// are plain string values, written without TTL: entities are only ever
// soft-deleted, never expired or removed.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/openagora/agora/pkg/docstore"
)

// Config holds all required info for initializing the redis driver.
type Config struct {
	Host     string
	Port     string
	Database int32
	Username string
	Password string

	// Tracing enables OpenTelemetry instrumentation on the client.
	Tracing bool
}

// RedisStore holds the handler for the redis client.
type RedisStore struct {
	client redis.UniversalClient
}

var _ docstore.Store = (*RedisStore)(nil)

// NewStore inits a RedisStore instance and verifies connectivity.
func NewStore(config *Config) (*RedisStore, error) {
	if config == nil {
		config = getDefaultConfig()
	}

	addr := fmt.Sprintf("%s:%s", config.Host, config.Port)
	options := &redis.UniversalOptions{
		Addrs:    []string{addr},
		Username: config.Username,
		Password: config.Password,
		DB:       int(config.Database),
	}

	redisClient := redis.NewUniversalClient(options)

	if config.Tracing {
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			return nil, fmt.Errorf("failed to instrument redis: %w", err)
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
		}
	}

	rs := RedisStore{
		client: redisClient,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := rs.client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	return &rs, nil
}

func getDefaultConfig() *Config {
	return &Config{
		Username: "",
		Host:     "localhost",
		Port:     "6379",
		Database: 0,
		Password: "",
	}
}

// Get returns the document stored under key.
func (rs *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, docstore.ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

// Put writes the document under key without TTL.
func (rs *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return rs.client.Set(ctx, key, value, 0).Err()
}

// List returns every key currently stored. SCAN gives no ordering
// guarantee and may miss keys written concurrently; callers already
// treat the key list as a point-in-time approximation.
func (rs *RedisStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	iter := rs.client.Scan(ctx, 0, "*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Disconnect closes the connection to the redis server.
func (rs *RedisStore) Disconnect() error {
	err := rs.client.Close()
	if err != nil {
		return err
	}
	return nil
}
