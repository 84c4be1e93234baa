package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a Redis client for testing
// Requires Redis running on localhost:6379
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use DB 15 for testing
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test database: %v", err)
	}

	return client
}

func TestNew(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Error("expected error for nil client")
	}

	store, err := New(redis.NewClient(&redis.Options{}), Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if store.config.KeyPrefix != "intellipm:etag:" {
		t.Errorf("expected default key prefix, got %q", store.config.KeyPrefix)
	}
	if store.config.TTL != 24*time.Hour {
		t.Errorf("expected default TTL, got %v", store.config.TTL)
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store, err := New(client, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	value, err := store.Get(ctx, "/api/v1/projects")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty validator for missing key, got %q", value)
	}

	if err := store.Set(ctx, "/api/v1/projects", `"v1"`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, err = store.Get(ctx, "/api/v1/projects")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != `"v1"` {
		t.Errorf("expected stored validator, got %q", value)
	}

	if err := store.Delete(ctx, "/api/v1/projects"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	value, _ = store.Get(ctx, "/api/v1/projects")
	if value != "" {
		t.Errorf("expected deleted validator, got %q", value)
	}
}

func TestStore_Clear(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store, err := New(client, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	// An unrelated key under another prefix must survive the clear.
	if err := client.Set(ctx, "other:key", "keep", 0).Err(); err != nil {
		t.Fatalf("failed to seed unrelated key: %v", err)
	}

	for _, endpoint := range []string{"/api/v1/projects", "/api/v1/sprints", "/api/v1/tasks"} {
		if err := store.Set(ctx, endpoint, `"v"`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	for _, endpoint := range []string{"/api/v1/projects", "/api/v1/sprints", "/api/v1/tasks"} {
		value, _ := store.Get(ctx, endpoint)
		if value != "" {
			t.Errorf("expected cleared validator for %s, got %q", endpoint, value)
		}
	}

	kept, err := client.Get(ctx, "other:key").Result()
	if err != nil || kept != "keep" {
		t.Errorf("unrelated key was removed by Clear: %q, %v", kept, err)
	}
}

func TestStore_TTL(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store, err := New(client, Config{TTL: time.Hour})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "/api/v1/projects", `"v1"`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ttl, err := client.TTL(ctx, "intellipm:etag:/api/v1/projects").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected TTL within the hour, got %v", ttl)
	}
}
