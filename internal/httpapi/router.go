// Package httpapi is the JSON HTTP surface of SkillSnap.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/goliatone/go-skillsnap/internal/telemetry"
	"github.com/rs/zerolog"
)

// Pinger reports backing store health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options wires the router.
type Options struct {
	Accounts Accounts
	Projects ResourceService[model.Project]
	Skills   ResourceService[model.Skill]
	Resolver *auth.Resolver

	// AuthLimiter rate limits /auth routes. Nil disables limiting.
	AuthLimiter *ClientLimiter
	// Metrics, when set, instruments requests and serves /metrics.
	Metrics *telemetry.Metrics
	// Health is pinged by GET /health. Nil reports healthy.
	Health Pinger

	// TrustProxyHeaders lets X-Forwarded-For and X-Real-IP override the
	// client address. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool

	CORSAllowedOrigins []string
	Logger             zerolog.Logger
}

// DefaultCORSOptions returns the CORS policy for the given origins.
func DefaultCORSOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Location", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// NewRouter assembles the API. Every route is served both at the root and
// under /api.
func NewRouter(opts Options) chi.Router {
	logger := opts.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(DefaultCORSOptions(opts.CORSAllowedOrigins)))

	r.Get("/health", healthHandler(opts.Health, logger))
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	api := func(r chi.Router) {
		accounts := &accountHandler{accounts: opts.Accounts, logger: logger}
		r.Route("/auth", func(r chi.Router) {
			if opts.AuthLimiter != nil {
				r = r.With(opts.AuthLimiter.Middleware)
			}
			r.Post("/register", accounts.register)
			r.Post("/login", accounts.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate(opts.Resolver, logger))
			r.Route("/projects", newResourceHandler[model.Project](opts.Projects, logger).routes)
			r.Route("/skills", newResourceHandler[model.Skill](opts.Skills, logger).routes)
		})
	}

	api(r)
	r.Route("/api", api)
	return r
}

func healthHandler(db Pinger, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				logger.Warn().Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
