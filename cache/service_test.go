package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/viccon/sturdyc"
)

// mockStore records every call so tests can assert on the cache-aside sequence
type mockStore struct {
	mu          sync.Mutex
	data        map[string]any
	sets        []string
	ttls        []time.Duration
	invalidated []string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]any)}
}

func (m *mockStore) Get(ctx context.Context, key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets = append(m.sets, key)
	m.ttls = append(m.ttls, ttl)
}

func (m *mockStore) Invalidate(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.invalidated = append(m.invalidated, key)
	return nil
}

func TestGetOrFetch_MissThenHit(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"Task Tracker", "Weather App"}, nil
	}

	first, err := GetOrFetch(ctx, store, "projects::all::1", DefaultTTL, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GetOrFetch(ctx, store, "projects::all::1", DefaultTTL, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected fetch to run once, ran %d times", calls)
	}
	if len(first) != 2 || len(second) != 2 || second[0] != "Task Tracker" {
		t.Errorf("unexpected results %v / %v", first, second)
	}
	if len(store.sets) != 1 || store.ttls[0] != DefaultTTL {
		t.Errorf("expected a single Set with the default ttl, got %v %v", store.sets, store.ttls)
	}
}

func TestGetOrFetch_ErrorIsNotCached(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()
	boom := errors.New("database unavailable")

	_, err := GetOrFetch(ctx, store, "skills::all::1", DefaultTTL, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to be returned unchanged, got %v", err)
	}
	if len(store.sets) != 0 {
		t.Errorf("expected nothing cached after a failed fetch, got %v", store.sets)
	}
}

func TestGetOrFetch_RefetchAfterInvalidate(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	version := 1
	fetch := func(ctx context.Context) (int, error) { return version, nil }

	if v, _ := GetOrFetch(ctx, store, "k", 0, fetch); v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}

	version = 2
	if v, _ := GetOrFetch(ctx, store, "k", 0, fetch); v != 1 {
		t.Fatalf("expected cached 1 before invalidation, got %d", v)
	}

	_ = store.Invalidate(ctx, "k")
	_ = store.Invalidate(ctx, "k")

	if v, _ := GetOrFetch(ctx, store, "k", 0, fetch); v != 2 {
		t.Fatalf("expected fresh 2 after invalidation, got %d", v)
	}
}

func TestLookup_TypeMismatchIsMiss(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()
	store.Set(ctx, "k", "a string", 0)

	if _, ok := Lookup[int](ctx, store, "k"); ok {
		t.Error("expected a value of another type to be reported as a miss")
	}
	if v, ok := Lookup[string](ctx, store, "k"); !ok || v != "a string" {
		t.Errorf("expected hit, got %q %v", v, ok)
	}
}

func TestNewStore_ExpiresWithClock(t *testing.T) {
	clock := sturdyc.NewTestClock(time.Now())

	cfg := DefaultConfig()
	cfg.Capacity = 100
	cfg.NumShards = 2
	cfg.Clock = clock

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	ns := NewNamespace("projects", nil)
	store.Set(ctx, ns.Collection(1), []int{1}, 0)

	clock.Add(DefaultTTL)
	if _, ok := store.Get(ctx, ns.Collection(1)); ok {
		t.Error("expected entry to expire after the default TTL")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
	if cfg.TTL != DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTTL, cfg.TTL)
	}

	cfg.TTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero TTL to be rejected")
	}

	if _, err := NewStore(cfg); err == nil {
		t.Error("expected NewStore to reject an invalid config")
	}
}
