// Package repositorycache serves per-user resources through a shared cache-aside store.
//
// # Overview
//
// A Service wraps the persistence Repository of one resource kind. Reads go through
// the cache; writes go to the repository and then invalidate the affected keys.
// Every operation takes the caller's auth.Principal and is scoped to that user.
//
//	store, _ := cache.NewStore(cache.DefaultConfig())
//	projects := repositorycache.New[model.Project](projectRepo, store)
//
//	list, err := projects.List(ctx, principal)
//	p, err := projects.Get(ctx, principal, 42)
//
// # Keys
//
// Each service owns a cache.Namespace. List uses the collection key
// (kind, user); Get uses the entity key (kind, id, user). A user id is part of
// every key, so two tenants never share an entry.
//
// # Writes
//
//   - Create invalidates the collection key only. The entity key is filled by the next Get.
//   - Update and Delete invalidate the collection key and the entity key.
//   - Invalidation runs only after the repository reported success.
//   - A failed invalidation is logged and the entry ages out with its TTL.
//
// A write never stores the new value in the cache; the next read repopulates it.
//
// # Ownership
//
// The owner of a draft is always overwritten with the principal's user id before
// validation or persistence. A resource owned by another user is reported as
// ErrNotFound, exactly like an absent one.
//
// # Concurrency
//
// Updates are guarded by the entity revision. When the revision moved, Update
// re-checks the row: ErrNotFound if it is gone, ErrConflict otherwise. Conflicts
// are never retried. Readers racing a writer may briefly repopulate an older value;
// that window is bounded by the TTL and closed by the next write.
package repositorycache
