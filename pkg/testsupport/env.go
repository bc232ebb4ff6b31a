package testsupport

import (
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-skillsnap/auth"
	"github.com/rs/zerolog"
)

// JWTSecret is a signing key long enough for auth.NewTokenService.
const JWTSecret = "test-secret-0123456789abcdef-0123456789"

// Logger returns a debug-level logger that writes through t.Log, so output
// only shows for failing or verbose tests.
func Logger(t testing.TB) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// FastArgon2Params keeps password hashing cheap in tests.
func FastArgon2Params() auth.Argon2Params {
	return auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

// Clock is a manually advanced clock safe for concurrent use.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
