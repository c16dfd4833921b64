package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 256

// DefaultPrefix is the namespace every key is stored under unless the caller
// configures another one.
const DefaultPrefix = "senator:"

// RedisStore implements [Store] on a Redis keyspace. Every key is stored
// under the configured namespace prefix; values are plain strings.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore creates a [RedisStore] backed by the given client. prefix sets
// the key namespace and falls back to [DefaultPrefix] when empty.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
	}
}

// Prefix returns the namespace prefix in use.
func (s *RedisStore) Prefix() string {
	return s.prefix
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Get returns the value stored under key.
//
//	Performance: 1 Redis GET.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data, nil
}

// Set writes value under key with no expiry.
//
//	Performance: 1 Redis SET.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.redis.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes key. Absent keys are ignored.
//
//	Performance: 1 Redis DEL.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// List returns every namespaced key starting with prefix, with the namespace
// stripped, sorted lexicographically.
//
//	Performance: one SCAN round-trip per 256 keys.
func (s *RedisStore) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.key(prefix)
	// MATCH is a glob; the prefix is literal text, so its metacharacters
	// must be escaped.
	pattern := escapeMatch(full) + "*"

	// SCAN can repeat keys across iterations; dedupe before returning.
	seen := make(map[string]struct{})
	var cursor uint64
	for {
		batch, next, err := s.redis.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		for _, key := range batch {
			if !strings.HasPrefix(key, full) {
				continue
			}
			seen[strings.TrimPrefix(key, s.prefix)] = struct{}{}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func escapeMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
