//go:build integration
// +build integration

package idempotency

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set, skipping integration tests")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Unable to connect to redis: %v", err)
	}

	store := NewRedisStore(client, time.Hour)
	key := Key(uuid.NewString(), "it")
	defer client.Del(ctx, key)

	got, err := store.Get(ctx, key)
	if err != nil || got != nil {
		t.Fatalf("Get() on missing key = %v, %v", got, err)
	}

	ok, err := store.Claim(ctx, key, "POST /x")
	if err != nil || !ok {
		t.Fatalf("Claim() = %v, %v", ok, err)
	}
	// Повторная попытка занять ключ проваливается
	if ok, err := store.Claim(ctx, key, "POST /x"); err != nil || ok {
		t.Fatalf("second Claim() = %v, %v", ok, err)
	}

	pending, err := store.Get(ctx, key)
	if err != nil || pending == nil || !pending.Pending() {
		t.Fatalf("Get() after claim = %+v, %v", pending, err)
	}
	ttl, err := client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 || ttl > ClaimTTL {
		t.Errorf("claim TTL = %v, %v", ttl, err)
	}

	first := &Response{Fingerprint: "POST /x", Status: 201, ContentType: "application/json", Body: []byte(`{"a":1}`)}
	if err := store.Save(ctx, key, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err = store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != 201 || string(got.Body) != `{"a":1}` || got.Fingerprint != "POST /x" {
		t.Errorf("Get() = %+v", got)
	}

	ttl, err = client.TTL(ctx, key).Result()
	if err != nil || ttl <= ClaimTTL || ttl > time.Hour {
		t.Errorf("TTL = %v, %v", ttl, err)
	}

	if err := store.Release(ctx, key); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if got, err := store.Get(ctx, key); err != nil || got != nil {
		t.Errorf("Get() after release = %+v, %v", got, err)
	}
}
