package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/cache"
	"github.com/goliatone/go-skillsnap/internal/account"
	"github.com/goliatone/go-skillsnap/internal/config"
	"github.com/goliatone/go-skillsnap/internal/httpapi"
	"github.com/goliatone/go-skillsnap/internal/model"
	"github.com/goliatone/go-skillsnap/internal/storage"
	"github.com/goliatone/go-skillsnap/internal/telemetry"
	"github.com/goliatone/go-skillsnap/repositorycache"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/viccon/sturdyc"
)

// Container is the composition root. It owns the single cache store shared by
// every resource service, so an invalidation issued by one kind's writes is
// seen by every reader of that kind.
type Container struct {
	config *config.Config
	logger zerolog.Logger

	db     *bun.DB
	ownsDB bool

	store   cache.Store
	metrics *telemetry.Metrics

	tokens   *auth.TokenService
	resolver *auth.Resolver
	hasher   *auth.Argon2Hasher

	users    *storage.UserRepository
	projects *repositorycache.Service[model.Project, *model.Project]
	skills   *repositorycache.Service[model.Skill, *model.Skill]
	accounts *account.Service

	authLimiter *httpapi.ClientLimiter
	router      http.Handler
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	db         *bun.DB
	cacheClock sturdyc.Clock
	tokenClock func() time.Time
	argon2     auth.Argon2Params
}

// WithDB injects an open database. The container will not close it.
func WithDB(db *bun.DB) Option {
	return func(o *options) { o.db = db }
}

// WithCacheClock drives cache expiry from clock instead of the wall clock.
func WithCacheClock(clock sturdyc.Clock) Option {
	return func(o *options) { o.cacheClock = clock }
}

// WithTokenClock drives token issuance and verification from now.
func WithTokenClock(now func() time.Time) Option {
	return func(o *options) { o.tokenClock = now }
}

// WithArgon2Params overrides the password hashing cost.
func WithArgon2Params(params auth.Argon2Params) Option {
	return func(o *options) { o.argon2 = params }
}

// NewContainer builds every component from cfg. When no database is injected
// it opens cfg.DatabaseURL and closes it in Close.
func NewContainer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Container, error) {
	o := options{argon2: auth.DefaultArgon2Params()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		config: cfg,
		logger: logger,
		db:     o.db,
	}

	if c.db == nil {
		db, err := storage.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.db = db
		c.ownsDB = true
	}

	storeCfg := cfg.Cache.StoreConfig()
	storeCfg.Clock = o.cacheClock
	if cfg.MetricsEnabled {
		c.metrics = telemetry.New()
		storeCfg.Observer = c.metrics
	}

	store, err := cache.NewStore(storeCfg)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create cache store: %w", err)
	}
	c.store = store

	tokenOpts := []auth.TokenOption{auth.WithLifetime(cfg.JWT.Lifetime)}
	if o.tokenClock != nil {
		tokenOpts = append(tokenOpts, auth.WithClock(o.tokenClock))
	}
	c.tokens, err = auth.NewTokenService([]byte(cfg.JWT.SecretKey), cfg.JWT.Issuer, cfg.JWT.Audience, tokenOpts...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("create token service: %w", err)
	}
	c.resolver = auth.NewResolver(c.tokens).WithLogger(logger)
	c.hasher = auth.NewArgon2Hasher(o.argon2)

	c.users = storage.NewUserRepository(c.db)
	c.projects = NewResourceService[model.Project](c, storage.NewProjectRepository(c.db))
	c.skills = NewResourceService[model.Skill](c, storage.NewSkillRepository(c.db))
	c.accounts = account.NewService(c.users, c.hasher, c.tokens, logger)

	c.authLimiter = httpapi.NewClientLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	if c.metrics != nil {
		c.authLimiter.OnReject(c.metrics.RateLimited)
	}

	return c, nil
}

// NewResourceService wires a resource service onto the container's shared
// store. The kind defaults to the snake_case plural of T.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewResourceService[model.Project](container, projectRepository)
func NewResourceService[T any, PT repositorycache.EntityPtr[T]](c *Container, repo repositorycache.Repository[T]) *repositorycache.Service[T, PT] {
	return repositorycache.New[T, PT](repo, c.store,
		repositorycache.WithTTL(c.config.Cache.TTL),
		repositorycache.WithLogger(c.logger),
	)
}

// Router returns the HTTP handler, building it on first use.
func (c *Container) Router() http.Handler {
	if c.router == nil {
		c.router = httpapi.NewRouter(httpapi.Options{
			Accounts:           c.accounts,
			Projects:           c.projects,
			Skills:             c.skills,
			Resolver:           c.resolver,
			AuthLimiter:        c.authLimiter,
			Metrics:            c.metrics,
			Health:             c.db,
			TrustProxyHeaders:  c.config.TrustProxyHeaders,
			CORSAllowedOrigins: c.config.CORSAllowedOrigins,
			Logger:             c.logger,
		})
	}
	return c.router
}

func (c *Container) Config() *config.Config                                            { return c.config }
func (c *Container) DB() *bun.DB                                                       { return c.db }
func (c *Container) Store() cache.Store                                                { return c.store }
func (c *Container) Metrics() *telemetry.Metrics                                       { return c.metrics }
func (c *Container) Tokens() *auth.TokenService                                        { return c.tokens }
func (c *Container) Resolver() *auth.Resolver                                          { return c.resolver }
func (c *Container) Hasher() *auth.Argon2Hasher                                        { return c.hasher }
func (c *Container) Accounts() *account.Service                                        { return c.accounts }
func (c *Container) AuthLimiter() *httpapi.ClientLimiter                               { return c.authLimiter }
func (c *Container) Projects() *repositorycache.Service[model.Project, *model.Project] { return c.projects }
func (c *Container) Skills() *repositorycache.Service[model.Skill, *model.Skill]       { return c.skills }

// Close releases the database if the container opened it.
func (c *Container) Close() error {
	if c.ownsDB {
		return storage.Close(c.db)
	}
	return nil
}
