package cache

import (
	"context"
	"time"
)

// Store is the cache-aside contract shared by every resource family.
// Implementations must be safe for concurrent use and give per-key linearizable
// semantics: a Get that starts after an Invalidate of the same key returned
// never observes the removed value.
type Store interface {
	// Get returns the live value stored under key. Expired entries are reported as a miss.
	Get(ctx context.Context, key string) (any, bool)
	// Set overwrites key unconditionally. A ttl <= 0 selects the store default.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Invalidate removes key. Removing an absent key is not an error.
	Invalidate(ctx context.Context, key string) error
}

// Observer receives cache lookup and invalidation events, keyed by resource kind.
type Observer interface {
	Lookup(kind string, hit bool)
	Invalidated(kind string)
}

// FetchFn is the function signature GetOrFetch expects when loading from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Lookup is a type-safe Get. A value stored under key with a different type is a miss.
func Lookup[T any](ctx context.Context, store Store, key string) (T, bool) {
	var zero T
	raw, ok := store.Get(ctx, key)
	if !ok {
		return zero, false
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// GetOrFetch runs the cache-aside sequence for key: return the cached value on a hit,
// otherwise call fetchFn and store its result with ttl. Errors from fetchFn are returned
// unchanged and nothing is cached.
//
// Concurrent misses on the same key each call fetchFn. Coalescing them would let a reader
// that arrived after an invalidation share a load that started before the write.
func GetOrFetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetchFn FetchFn[T]) (T, error) {
	if value, ok := Lookup[T](ctx, store, key); ok {
		return value, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	store.Set(ctx, key, value, ttl)
	return value, nil
}
