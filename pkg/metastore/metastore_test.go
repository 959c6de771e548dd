package metastore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisWithClient(client, "test:item:"), mr
}

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if got, err := store.Get(ctx, 1, "k"); err != nil || got != nil {
		t.Fatalf("expected empty read, got %v (err=%v)", got, err)
	}
	if err := store.Set(ctx, 1, "k", 42); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := store.Get(ctx, 1, "k"); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if diff := cmp.Diff([]int{1}, store.Items()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if err := store.Delete(ctx, 1, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Snapshot(1) != nil || len(store.Items()) != 0 {
		t.Fatalf("expected item to be dropped once empty")
	}
	if err := store.Delete(ctx, 99, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestRedis_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedis(t)

	if got, err := store.Get(ctx, 7, "_menufields_menu_edit_icon"); err != nil || got != nil {
		t.Fatalf("expected missing key to read as nil, got %v (err=%v)", got, err)
	}
	if err := store.Set(ctx, 7, "_menufields_menu_edit_icon", "star"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := mr.HGet("test:item:7", "_menufields_menu_edit_icon"); got != "star" {
		t.Fatalf("expected hash field in redis, got %q", got)
	}
	got, err := store.Get(ctx, 7, "_menufields_menu_edit_icon")
	if err != nil || got != "star" {
		t.Fatalf("expected star, got %v (err=%v)", got, err)
	}
	if err := store.Delete(ctx, 7, "_menufields_menu_edit_icon"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := store.Get(ctx, 7, "_menufields_menu_edit_icon"); got != nil {
		t.Fatalf("expected nil after delete, got %v", got)
	}
}

func TestRedis_EncodesNonStringValues(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedis(t)

	values := map[string]any{
		"int":   9876,
		"bool":  true,
		"float": 1.5,
		"list":  []any{"a", "b"},
	}
	for key, value := range values {
		if err := store.Set(ctx, 3, key, value); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	got, err := store.Snapshot(ctx, 3)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := map[string]string{
		"int":   "9876",
		"bool":  "1",
		"float": "1.5",
		"list":  `["a","b"]`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRedis_RequiresAddressAndPings(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedis(ctx, RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty address")
	}

	mr := miniredis.RunT(t)
	store, err := NewRedis(ctx, RedisConfig{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("new redis: %v", err)
	}
	defer store.Close()
	if store.prefix != DefaultRedisPrefix {
		t.Fatalf("expected default prefix, got %q", store.prefix)
	}
}
