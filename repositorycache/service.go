package repositorycache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/cache"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when a resource is absent or owned by another user.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a concurrent write changed the resource
	// between load and update.
	ErrConflict = errors.New("resource was modified concurrently")

	// ErrInvalid wraps validation failures of a draft.
	ErrInvalid = errors.New("invalid resource")
)

// Entity is the contract every cached resource satisfies. The service uses it
// to force ownership and to carry the concurrency token from load to update.
type Entity interface {
	RecordID() int64
	SetRecordID(id int64)
	OwnerID() int64
	SetOwnerID(userID int64)
	RecordRevision() int64
	SetRecordRevision(rev int64)
}

// EntityPtr constrains PT to be *T implementing Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

// Repository is the persistence collaborator for one resource kind.
//
// FindByOwner returns the owner's resources sorted by their natural key.
// FindByID and Delete return ErrNotFound when no row matches.
// UpdateExisting returns ErrConflict when the stored revision no longer
// matches record's revision; on success the returned record carries the new one.
type Repository[T any] interface {
	FindByOwner(ctx context.Context, userID int64) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, record T) (T, error)
	UpdateExisting(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Service serves one resource kind per user through the cache-aside store and
// invalidates precisely on writes. It holds no locks of its own; every operation
// is a sequence of store and repository calls.
type Service[T any, PT EntityPtr[T]] struct {
	repo   Repository[T]
	store  cache.Store
	keys   cache.Namespace
	ttl    time.Duration
	logger zerolog.Logger
}

// Option configures a Service.
type Option func(*options)

type options struct {
	kind       string
	ttl        time.Duration
	logger     zerolog.Logger
	serializer cache.KeySerializer
}

// WithKind overrides the key namespace, which defaults to the snake_case
// plural of the type name.
func WithKind(kind string) Option {
	return func(o *options) { o.kind = kind }
}

// WithTTL sets the lifetime of entries written by the service.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(o *options) { o.serializer = serializer }
}

// New creates a Service for T backed by repo and the shared store.
func New[T any, PT EntityPtr[T]](repo Repository[T], store cache.Store, opts ...Option) *Service[T, PT] {
	o := options{
		kind:   defaultKind[T](),
		ttl:    cache.DefaultTTL,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service[T, PT]{
		repo:   repo,
		store:  store,
		keys:   cache.NewNamespace(o.kind, o.serializer),
		ttl:    o.ttl,
		logger: o.logger.With().Str("kind", o.kind).Logger(),
	}
}

// Kind returns the key namespace of this service.
func (s *Service[T, PT]) Kind() string {
	return s.keys.Kind()
}

// List returns the principal's resources in natural key order.
func (s *Service[T, PT]) List(ctx context.Context, p auth.Principal) ([]T, error) {
	if !p.Valid() {
		return nil, auth.ErrUnauthenticated
	}

	records, err := cache.GetOrFetch(ctx, s.store, s.keys.Collection(p.UserID), s.ttl, func(ctx context.Context) ([]T, error) {
		records, err := s.repo.FindByOwner(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []T{}
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.keys.Kind(), err)
	}

	// The cached slice is shared between requests.
	return slices.Clone(records), nil
}

// Get returns resource id if the principal owns it, ErrNotFound otherwise.
func (s *Service[T, PT]) Get(ctx context.Context, p auth.Principal, id int64) (T, error) {
	var zero T
	if !p.Valid() {
		return zero, auth.ErrUnauthenticated
	}

	record, err := cache.GetOrFetch(ctx, s.store, s.keys.Entity(id, p.UserID), s.ttl, func(ctx context.Context) (T, error) {
		return s.owned(ctx, p, id)
	})
	if err != nil {
		return zero, err
	}
	return record, nil
}

// Create persists draft as a new resource owned by the principal. Only the
// collection key is invalidated; the entity key is filled by the next Get.
func (s *Service[T, PT]) Create(ctx context.Context, p auth.Principal, draft T) (T, error) {
	var zero T
	if !p.Valid() {
		return zero, auth.ErrUnauthenticated
	}

	s.claim(&draft, p)
	PT(&draft).SetRecordID(0)
	PT(&draft).SetRecordRevision(0)

	if err := validate(&draft); err != nil {
		return zero, err
	}

	created, err := s.repo.Insert(ctx, draft)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", s.keys.Kind(), err)
	}

	s.invalidate(ctx, s.keys.Collection(p.UserID))
	return created, nil
}

// Update overwrites the fields of resource id with draft. A lost race against
// another writer returns ErrConflict, or ErrNotFound when that writer deleted it.
func (s *Service[T, PT]) Update(ctx context.Context, p auth.Principal, id int64, draft T) (T, error) {
	var zero T
	if !p.Valid() {
		return zero, auth.ErrUnauthenticated
	}

	s.claim(&draft, p)

	existing, err := s.owned(ctx, p, id)
	if err != nil {
		return zero, err
	}

	PT(&draft).SetRecordID(id)
	PT(&draft).SetRecordRevision(PT(&existing).RecordRevision())

	if err := validate(&draft); err != nil {
		return zero, err
	}

	updated, err := s.repo.UpdateExisting(ctx, draft)
	if errors.Is(err, ErrConflict) {
		_, lookupErr := s.owned(ctx, p, id)
		if errors.Is(lookupErr, ErrNotFound) {
			return zero, ErrNotFound
		}
		if lookupErr != nil {
			return zero, lookupErr
		}
		s.logger.Warn().Int64("id", id).Int64("user_id", p.UserID).Msg("update lost a concurrent write race")
		return zero, ErrConflict
	}
	if err != nil {
		return zero, fmt.Errorf("update %s %d: %w", s.keys.Kind(), id, err)
	}

	s.invalidate(ctx, s.keys.Collection(p.UserID), s.keys.Entity(id, p.UserID))
	return updated, nil
}

// Delete removes resource id if the principal owns it.
func (s *Service[T, PT]) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if !p.Valid() {
		return auth.ErrUnauthenticated
	}

	if _, err := s.owned(ctx, p, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s %d: %w", s.keys.Kind(), id, err)
	}

	s.invalidate(ctx, s.keys.Collection(p.UserID), s.keys.Entity(id, p.UserID))
	return nil
}

// owned loads id from persistence and collapses absence and foreign ownership
// into ErrNotFound. Every operation that addresses a single resource goes through it.
func (s *Service[T, PT]) owned(ctx context.Context, p auth.Principal, id int64) (T, error) {
	var zero T

	record, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("load %s %d: %w", s.keys.Kind(), id, err)
	}

	if PT(&record).OwnerID() != p.UserID {
		return zero, ErrNotFound
	}
	return record, nil
}

// invalidate runs after the write committed. Failures are logged, never
// returned: the entry ages out with its TTL.
func (s *Service[T, PT]) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.store.Invalidate(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
			continue
		}
		s.logger.Debug().Str("key", key).Msg("cache invalidated")
	}
}

// claim is the ownership normalization applied before anything else looks at a draft.
func (s *Service[T, PT]) claim(draft *T, p auth.Principal) {
	PT(draft).SetOwnerID(p.UserID)
}

func validate[T any](draft *T) error {
	v, ok := any(draft).(validation.Validatable)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
