package testsupport

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"hypewatch/internal/adapters/config"
	"hypewatch/internal/adapters/redis"
)

// NewRedisClient creates a redis client for integration tests and ensures database cleanup.
func NewRedisClient(t *testing.T, cfg config.RedisConfig) *goredis.Client {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis before test: %v", err)
	}

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

// NewTestRedis creates the adapter-level client with config loaded from the
// environment. Skips the test when the integration environment is absent.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	cfg := LoadDatabaseConfigsFromEnv(t).Redis
	// Flush via the raw client first so each test starts clean
	NewRedisClient(t, cfg)

	client, err := redis.NewClient(cfg)
	if err != nil {
		t.Fatalf("failed to create redis adapter client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
