package cacheinfra

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/viccon/sturdyc"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 64 {
		t.Errorf("expected NumShards to be 64, got %d", cfg.NumShards)
	}

	if cfg.TTL != 10*time.Minute {
		t.Errorf("expected TTL to be 10 minutes, got %v", cfg.TTL)
	}

	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			name: "valid default config",
			cfg:  DefaultConfig(),
		},
		{
			name:      "invalid capacity - zero",
			cfg:       Config{Capacity: 0, NumShards: 4, TTL: time.Minute, EvictionPercentage: 10},
			wantField: "Capacity",
		},
		{
			name:      "invalid num shards - zero",
			cfg:       Config{Capacity: 100, NumShards: 0, TTL: time.Minute, EvictionPercentage: 10},
			wantField: "NumShards",
		},
		{
			name:      "invalid TTL - zero",
			cfg:       Config{Capacity: 100, NumShards: 4, TTL: 0, EvictionPercentage: 10},
			wantField: "TTL",
		},
		{
			name:      "invalid eviction percentage - too low",
			cfg:       Config{Capacity: 100, NumShards: 4, TTL: time.Minute, EvictionPercentage: 0},
			wantField: "EvictionPercentage",
		},
		{
			name:      "invalid eviction percentage - too high",
			cfg:       Config{Capacity: 100, NumShards: 4, TTL: time.Minute, EvictionPercentage: 101},
			wantField: "EvictionPercentage",
		},
		{
			name:      "invalid eviction interval - negative",
			cfg:       Config{Capacity: 100, NumShards: 4, TTL: time.Minute, EvictionPercentage: 10, EvictionInterval: -time.Second},
			wantField: "EvictionInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("expected no validation error but got: %v", err)
				}
				return
			}

			configErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("expected *ConfigError, got %T (%v)", err, err)
			}
			if configErr.Field != tt.wantField {
				t.Errorf("expected error on field %q, got %q", tt.wantField, configErr.Field)
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	cfg := DefaultConfig()
	if got := len(cfg.ToSturdycOptions()); got != 0 {
		t.Errorf("expected no sturdyc options for default config, got %d", got)
	}

	cfg.EvictionInterval = time.Second
	cfg.Clock = sturdyc.NewTestClock(time.Now())
	if got := len(cfg.ToSturdycOptions()); got != 2 {
		t.Errorf("expected 2 sturdyc options, got %d", got)
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "config error in field TestField: test message"
	if err.Error() != expected {
		t.Errorf("expected error message %q, got %q", expected, err.Error())
	}
}

func TestNewSturdycStore_InvalidConfig(t *testing.T) {
	store, err := NewSturdycStore(Config{Capacity: 0, NumShards: 4, TTL: time.Minute, EvictionPercentage: 10})
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if store != nil {
		t.Error("expected store to be nil when error occurs")
	}
	if err.Error() != "config error in field Capacity: must be greater than 0" {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

type recordingObserver struct {
	mu          sync.Mutex
	lookups     []string
	invalidated []string
}

func (o *recordingObserver) Lookup(kind string, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.lookups = append(o.lookups, kind+":hit")
	} else {
		o.lookups = append(o.lookups, kind+":miss")
	}
}

func (o *recordingObserver) Invalidated(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalidated = append(o.invalidated, kind)
}

func newTestStore(t *testing.T, clock *sturdyc.TestClock, observer Observer) *SturdycStore {
	t.Helper()

	cfg := Config{
		Capacity:           1000,
		NumShards:          4,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
		Observer:           observer,
		KindOf: func(key string) string {
			kind, _, _ := strings.Cut(key, "::")
			return kind
		},
	}
	if clock != nil {
		cfg.Clock = clock
	}

	store, err := NewSturdycStore(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestSturdycStore_SetGet(t *testing.T) {
	store := newTestStore(t, nil, nil)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "projects::all::1"); ok {
		t.Fatal("expected miss on empty store")
	}

	store.Set(ctx, "projects::all::1", []string{"a", "b"}, 0)

	value, ok := store.Get(ctx, "projects::all::1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	list, ok := value.([]string)
	if !ok || len(list) != 2 || list[0] != "a" {
		t.Errorf("unexpected cached value %#v", value)
	}

	store.Set(ctx, "projects::all::1", []string{"c"}, 0)
	value, _ = store.Get(ctx, "projects::all::1")
	if list := value.([]string); len(list) != 1 || list[0] != "c" {
		t.Errorf("expected Set to overwrite, got %#v", value)
	}
}

func TestSturdycStore_LazyExpiry(t *testing.T) {
	clock := sturdyc.NewTestClock(time.Now())
	store := newTestStore(t, clock, nil)
	ctx := context.Background()

	store.Set(ctx, "skills::7::1", "skill", 0)

	clock.Add(10*time.Minute - time.Second)
	if _, ok := store.Get(ctx, "skills::7::1"); !ok {
		t.Fatal("expected entry to be live just before the TTL")
	}

	clock.Add(time.Second)
	if _, ok := store.Get(ctx, "skills::7::1"); ok {
		t.Fatal("expected entry to be a miss once the TTL elapsed")
	}
}

func TestSturdycStore_PerEntryTTL(t *testing.T) {
	clock := sturdyc.NewTestClock(time.Now())
	store := newTestStore(t, clock, nil)
	ctx := context.Background()

	store.Set(ctx, "short", 1, time.Minute)
	store.Set(ctx, "clamped", 2, time.Hour)

	clock.Add(time.Minute)
	if _, ok := store.Get(ctx, "short"); ok {
		t.Error("expected short-lived entry to expire after its own ttl")
	}
	if _, ok := store.Get(ctx, "clamped"); !ok {
		t.Error("expected clamped entry to still be live")
	}

	clock.Add(9 * time.Minute)
	if _, ok := store.Get(ctx, "clamped"); ok {
		t.Error("expected ttl above the store TTL to be clamped to it")
	}
}

func TestSturdycStore_Invalidate(t *testing.T) {
	observer := &recordingObserver{}
	store := newTestStore(t, nil, observer)
	ctx := context.Background()

	store.Set(ctx, "projects::3::1", "p3", 0)
	store.Set(ctx, "projects::4::1", "p4", 0)

	for i := 0; i < 2; i++ {
		if err := store.Invalidate(ctx, "projects::3::1"); err != nil {
			t.Fatalf("expected no error from Invalidate, got %v", err)
		}
	}

	if _, ok := store.Get(ctx, "projects::3::1"); ok {
		t.Error("expected invalidated key to be a miss")
	}
	if _, ok := store.Get(ctx, "projects::4::1"); !ok {
		t.Error("expected sibling key to survive")
	}

	if err := store.Invalidate(ctx, "never-set"); err != nil {
		t.Errorf("expected invalidating an absent key to be a no-op, got %v", err)
	}

	if got := strings.Join(observer.lookups, ","); got != "projects:miss,projects:hit" {
		t.Errorf("unexpected lookups %q", got)
	}
	if len(observer.invalidated) != 3 || observer.invalidated[0] != "projects" {
		t.Errorf("unexpected invalidations %v", observer.invalidated)
	}
}

func TestSturdycStore_ConcurrentAccess(t *testing.T) {
	store := newTestStore(t, nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := "k"
				if j%2 == 0 {
					store.Set(ctx, key, i, 0)
				} else {
					_ = store.Invalidate(ctx, key)
				}
				store.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	_ = store.Invalidate(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Error("expected miss after the final invalidation")
	}
}
