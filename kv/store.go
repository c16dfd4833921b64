package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no value exists under the key.
	ErrNotFound = errors.New("key not found")
	// ErrStoreUnavailable wraps transport failures talking to the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Store is the persistence contract consumed by the engine: a namespaced flat
// key-value store. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value under key, or [ErrNotFound].
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every key starting with prefix, sorted. An empty prefix
	// lists the whole namespace.
	List(ctx context.Context, prefix string) ([]string, error)
}
