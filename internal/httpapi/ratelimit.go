package httpapi

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ClientLimiter applies a token bucket per client IP.
type ClientLimiter struct {
	limit    rate.Limit
	burst    int
	clients  *xsync.MapOf[string, *clientBucket]
	now      func() time.Time
	rejected func(route string)
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// NewClientLimiter allows limit requests per second with bursts of burst for
// each client. A limit <= 0 disables limiting.
func NewClientLimiter(limit float64, burst int) *ClientLimiter {
	l := rate.Limit(limit)
	if limit <= 0 {
		l = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		limit:   l,
		burst:   burst,
		clients: xsync.NewMapOf[string, *clientBucket](),
		now:     time.Now,
	}
}

// OnReject registers a callback invoked with the route pattern of every
// rejected request, or "unmatched" outside a chi route.
func (l *ClientLimiter) OnReject(fn func(route string)) *ClientLimiter {
	l.rejected = fn
	return l
}

// Allow consumes one token from key's bucket.
func (l *ClientLimiter) Allow(key string) bool {
	now := l.now()
	bucket, _ := l.clients.LoadOrCompute(key, func() *clientBucket {
		return &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
	})
	bucket.lastSeen.Store(now.UnixNano())
	return bucket.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (l *ClientLimiter) Len() int {
	return l.clients.Size()
}

// Sweep forgets clients idle for longer than idle and returns how many were dropped.
func (l *ClientLimiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle).UnixNano()
	dropped := 0
	l.clients.Range(func(key string, bucket *clientBucket) bool {
		if bucket.lastSeen.Load() < cutoff {
			l.clients.Delete(key)
			dropped++
		}
		return true
	})
	return dropped
}

// Run sweeps idle clients every interval until ctx is done.
func (l *ClientLimiter) Run(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(2 * interval); n > 0 {
				logger.Debug().Int("dropped", n).Int("tracked", l.Len()).Msg("rate limiter sweep")
			}
		}
	}
}

// Middleware rejects requests over the limit with 429. It keys on
// RemoteAddr, which middleware.RealIP rewrites when proxy headers are trusted.
// Mount it per route with chi's With so the pattern is resolved and unknown
// paths never reach the limiter.
func (l *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Allow(clientKey(r)) {
			next.ServeHTTP(w, r)
			return
		}

		if l.rejected != nil {
			l.rejected(routePattern(r))
		}
		retryAfter := 1
		if l.limit > 0 && l.limit < 1 {
			retryAfter = int(1/float64(l.limit) + 0.5)
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
			Code:    CodeRateLimited,
			Message: "too many requests, retry later",
		}})
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
