//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("STYLETOWER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STYLETOWER_TEST_REDIS_ADDR not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, addr, nil)
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	exercise(t, c)

	if err := c.Set(ctx, "short", []byte("v"), time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("entry should have expired")
	}
}
