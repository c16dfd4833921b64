package kv

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, prefix), mr
}

func TestGetSetDelete(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	if _, err := store.Get(ctx, "user:alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on absent key = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "user:alice", []byte(`{"role":"user"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "user:alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"role":"user"}` {
		t.Fatalf("Get returned %q", got)
	}

	if err := store.Delete(ctx, "user:alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "user:alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "user:alice"); err != nil {
		t.Fatalf("Delete of absent key failed: %v", err)
	}
}

func TestNamespacePrefix(t *testing.T) {
	store, mr := newTestStore(t, "")
	ctx := context.Background()

	if err := store.Set(ctx, "user:alice", []byte("v")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := mr.Get(DefaultPrefix + "user:alice"); err != nil {
		t.Fatalf("raw key %q not present: %v", DefaultPrefix+"user:alice", err)
	}
}

func TestListByPrefix(t *testing.T) {
	store, _ := newTestStore(t, "qhse:")
	ctx := context.Background()

	for _, key := range []string{
		"activity:alice:001",
		"activity:alice:002",
		"activity:bob:001",
		"user:alice",
	} {
		if err := store.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Set %q failed: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "activity:alice:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"activity:alice:001", "activity:alice:002"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("List = %v, want %v", keys, want)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List all returned %d keys, want 4", len(all))
	}
}

func TestListPrefixIsLiteral(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	// Glob metacharacters in a key segment must match themselves, nothing
	// else.
	for _, key := range []string{
		"activity:task[1]:a",
		"activity:task[1]:b",
		"activity:task1:c",
		"activity:t*:d",
		"activity:tx:e",
	} {
		if err := store.Set(ctx, key, []byte("v")); err != nil {
			t.Fatalf("Set %q failed: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "activity:task[1]:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"activity:task[1]:a", "activity:task[1]:b"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("List = %v, want %v", keys, want)
	}

	keys, err = store.List(ctx, "activity:t*:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want = []string{"activity:t*:d"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("List = %v, want %v", keys, want)
	}
}

func TestListIsolatedByNamespace(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	first := NewRedisStore(rdb, "one:")
	second := NewRedisStore(rdb, "two:")
	ctx := context.Background()

	if err := first.Set(ctx, "shared", []byte("a")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := second.Set(ctx, "shared", []byte("b")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := first.Get(ctx, "shared")
	if err != nil || string(got) != "a" {
		t.Fatalf("first namespace read %q, %v", got, err)
	}

	keys, err := second.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "shared" {
		t.Fatalf("second namespace lists %v", keys)
	}
}

func TestStoreUnavailable(t *testing.T) {
	store, mr := newTestStore(t, "")
	ctx := context.Background()

	mr.Close()

	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Get after close = %v, want ErrStoreUnavailable", err)
	}
	if err := store.Set(ctx, "k", []byte("v")); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Set after close = %v, want ErrStoreUnavailable", err)
	}
	if _, err := store.List(ctx, ""); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("List after close = %v, want ErrStoreUnavailable", err)
	}
}
