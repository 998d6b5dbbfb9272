package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "noonpick/internal/adapters/redis"
	"noonpick/internal/domain"
)

func newTestCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return redisad.NewFromClient(client), mr
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	entry := domain.MetaCacheEntry{
		Meta:     domain.Meta{Title: "국밥집", Description: "점심 맛집", Image: "http://img"},
		CachedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
	}
	if err := cache.Set(ctx, "og:http://place/1", entry, 600); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.MetaCacheEntry
	ok, err := cache.Get(ctx, "og:http://place/1", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Title != entry.Title || !got.CachedAt.Equal(entry.CachedAt) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCache_MissAndTTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	var dst domain.MetaCacheEntry
	ok, err := cache.Get(ctx, "og:absent", &dst)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "og:short", domain.MetaCacheEntry{}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(61 * time.Second)

	ok, err = cache.Get(ctx, "og:short", &dst)
	if err != nil || ok {
		t.Fatalf("expected TTL eviction, ok=%v err=%v", ok, err)
	}
}

func TestCache_Del(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, "og:gone", domain.MetaCacheEntry{}, 600)
	if err := cache.Del(ctx, "og:gone"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var dst domain.MetaCacheEntry
	if ok, _ := cache.Get(ctx, "og:gone", &dst); ok {
		t.Fatalf("expected key to be gone")
	}
}
