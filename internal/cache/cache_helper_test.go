package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedOffering struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "offering:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	want := cachedOffering{ID: 1, Code: "CS101"}
	if err := helper.Set(ctx, "detail:1", want, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var got cachedOffering
	if err := helper.Get(ctx, "detail:1", &got); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	var got cachedOffering
	err := helper.Get(ctx, "detail:404", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

func TestCacheHelper_NilClientDegrades(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "offering:")

	var got cachedOffering
	if err := helper.Get(ctx, "detail:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("expected cache unavailable, got %v", err)
	}
	// Writes are silently skipped without a client.
	if err := helper.Set(ctx, "detail:1", cachedOffering{}, time.Minute); err != nil {
		t.Fatalf("set on nil client should be a no-op, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, mr := newTestHelper(t)

	for _, key := range []string{"detail:1", "detail:2", "list:active"} {
		if err := helper.Set(ctx, key, cachedOffering{ID: 1}, time.Minute); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "detail:*"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if mr.Exists("offering:detail:1") || mr.Exists("offering:detail:2") {
		t.Error("expected detail keys to be invalidated")
	}
	if !mr.Exists("offering:list:active") {
		t.Error("expected unrelated key to survive")
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedOffering{ID: 7, Code: "CS201"}, nil
	}

	var got cachedOffering
	if err := helper.CacheOrExecute(ctx, "detail:7", &got, time.Minute, fetch); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if calls != 1 || got.Code != "CS201" {
		t.Fatalf("expected fetch to run once, calls=%d got=%+v", calls, got)
	}

	// The async set may still be in flight; wait for the key.
	deadline := time.Now().Add(time.Second)
	for {
		var cached cachedOffering
		if err := helper.Get(ctx, "detail:7", &cached); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cached value never appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	var again cachedOffering
	if err := helper.CacheOrExecute(ctx, "detail:7", &again, time.Minute, fetch); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cache hit to skip fetch, calls=%d", calls)
	}
}

func TestCacheManager_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)
	if err := cm.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := cm.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear on nil client should be a no-op, got %v", err)
	}
}
