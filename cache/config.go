package cache

import (
	"time"

	"github.com/goliatone/go-skillsnap/internal/cacheinfra"
	"github.com/viccon/sturdyc"
)

// DefaultTTL is the lifetime of every cached collection and entity.
const DefaultTTL = 10 * time.Minute

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration

	// Clock overrides the wall clock. Tests pass sturdyc.NewTestClock.
	Clock sturdyc.Clock

	// Observer, when set, is notified of every lookup and invalidation.
	Observer Observer
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the default Store implementation using the provided configuration.
func NewStore(cfg Config) (Store, error) {
	store, err := cacheinfra.NewSturdycStore(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (c Config) toInternal() cacheinfra.Config {
	cfg := cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		Clock:              c.Clock,
		KindOf:             KindOf,
	}
	if c.Observer != nil {
		cfg.Observer = c.Observer
	}
	return cfg
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		Clock:              cfg.Clock,
	}
}
