package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-skillsnap/auth"
	"github.com/goliatone/go-skillsnap/repositorycache"
	"github.com/rs/zerolog"
)

// ResourceService is the per-user CRUD surface served by a resource handler.
// *repositorycache.Service satisfies it.
type ResourceService[T any] interface {
	Kind() string
	List(ctx context.Context, p auth.Principal) ([]T, error)
	Get(ctx context.Context, p auth.Principal, id int64) (T, error)
	Create(ctx context.Context, p auth.Principal, draft T) (T, error)
	Update(ctx context.Context, p auth.Principal, id int64, draft T) (T, error)
	Delete(ctx context.Context, p auth.Principal, id int64) error
}

type resourceHandler[T any, PT repositorycache.EntityPtr[T]] struct {
	service ResourceService[T]
	logger  zerolog.Logger
}

func newResourceHandler[T any, PT repositorycache.EntityPtr[T]](service ResourceService[T], logger zerolog.Logger) *resourceHandler[T, PT] {
	return &resourceHandler[T, PT]{
		service: service,
		logger:  logger.With().Str("kind", service.Kind()).Logger(),
	}
}

func (h *resourceHandler[T, PT]) routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *resourceHandler[T, PT]) list(w http.ResponseWriter, r *http.Request) {
	p, err := auth.Require(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	records, err := h.service.List(r.Context(), p)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := writeCacheable(w, r, records); err != nil {
		writeError(w, r, h.logger, err)
	}
}

func (h *resourceHandler[T, PT]) get(w http.ResponseWriter, r *http.Request) {
	p, id, err := h.target(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	record, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := writeCacheable(w, r, record); err != nil {
		writeError(w, r, h.logger, err)
	}
}

func (h *resourceHandler[T, PT]) create(w http.ResponseWriter, r *http.Request) {
	p, err := auth.Require(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var draft T
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.service.Create(r.Context(), p, draft)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id := strconv.FormatInt(PT(&created).RecordID(), 10)
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+id)
	writeJSON(w, http.StatusCreated, created)
}

func (h *resourceHandler[T, PT]) update(w http.ResponseWriter, r *http.Request) {
	p, id, err := h.target(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var draft T
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if bodyID := PT(&draft).RecordID(); bodyID != 0 && bodyID != id {
		writeError(w, r, h.logger, errBadRequest("body id does not match path id"))
		return
	}

	if _, err := h.service.Update(r.Context(), p, id, draft); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *resourceHandler[T, PT]) delete(w http.ResponseWriter, r *http.Request) {
	p, id, err := h.target(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), p, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// target returns the caller and the {id} path parameter.
func (h *resourceHandler[T, PT]) target(r *http.Request) (auth.Principal, int64, error) {
	p, err := auth.Require(r.Context())
	if err != nil {
		return auth.Principal{}, 0, err
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return auth.Principal{}, 0, errBadRequest("id must be a positive integer")
	}
	return p, id, nil
}
