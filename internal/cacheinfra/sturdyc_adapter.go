package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc cache adapter.
// It encapsulates the core sturdyc options needed for cache initialization.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Every shard has its own lock, so lookups on different keys rarely contend.
	// Must be greater than 0. Default: 64
	NumShards int

	// TTL is the default and the maximum time-to-live for cached entries.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are physically purged.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration

	// Clock replaces the wall clock for both sturdyc and the entry expiry check.
	Clock sturdyc.Clock

	// Observer is notified of lookups and invalidations. Optional.
	Observer Observer

	// KindOf maps a key to the resource kind reported to Observer.
	KindOf func(key string) string
}

// Observer receives cache events. It mirrors cache.Observer.
type Observer interface {
	Lookup(kind string, hit bool)
	Invalidated(kind string)
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                10 * time.Minute,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
//
// Early refreshes and missing record storage stay disabled: a background refresh
// could write a value the store's writers already invalidated.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	if c.Clock != nil {
		options = append(options, sturdyc.WithClock(c.Clock))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// entry is what actually lives in sturdyc. The expiry instant travels with the value
// so that a per-entry ttl shorter than the client ttl is honoured.
type entry struct {
	value     any
	expiresAt time.Time
}

// SturdycStore wraps a sturdyc client and implements cache.Store.
type SturdycStore struct {
	client   *sturdyc.Client[entry]
	ttl      time.Duration
	now      func() time.Time
	observer Observer
	kindOf   func(string) string
}

// NewSturdycStore creates a new sturdyc-backed store.
// It validates the configuration and initializes a sturdyc client with the provided settings.
func NewSturdycStore(cfg Config) (*SturdycStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock.Now
	}

	kindOf := cfg.KindOf
	if kindOf == nil {
		kindOf = func(string) string { return "" }
	}

	return &SturdycStore{
		client:   client,
		ttl:      cfg.TTL,
		now:      now,
		observer: cfg.Observer,
		kindOf:   kindOf,
	}, nil
}

// Get implements cache.Store.Get.
// An entry past its expiry instant is a miss even if sturdyc still holds it.
func (s *SturdycStore) Get(ctx context.Context, key string) (any, bool) {
	e, ok := s.client.Get(key)
	if ok && !s.now().Before(e.expiresAt) {
		ok = false
	}

	if s.observer != nil {
		s.observer.Lookup(s.kindOf(key), ok)
	}

	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set implements cache.Store.Set.
// A ttl <= 0 selects the configured TTL; a larger ttl is clamped to it because
// sturdyc drops every entry after the client ttl regardless.
func (s *SturdycStore) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 || ttl > s.ttl {
		ttl = s.ttl
	}
	s.client.Set(key, entry{value: value, expiresAt: s.now().Add(ttl)})
}

// Invalidate implements cache.Store.Invalidate.
// Removing an absent key is a no-op.
func (s *SturdycStore) Invalidate(ctx context.Context, key string) error {
	s.client.Delete(key)
	if s.observer != nil {
		s.observer.Invalidated(s.kindOf(key))
	}
	return nil
}

// Len reports how many entries are physically held, including expired ones
// that were not purged yet.
func (s *SturdycStore) Len() int {
	return s.client.Size()
}
