// Package cache provides the cache-aside store contract and the key scheme used to
// partition cached portfolio data by tenant.
//
// # Overview
//
// The package exports:
//
//   - Store: a string-keyed cache with per-entry TTL and targeted invalidation
//   - Lookup / GetOrFetch: typed helpers implementing the cache-aside read path
//   - KeySerializer / Namespace: stable keys that always embed the owning user id
//   - Config / NewStore: the sturdyc-backed default implementation
//
// # Key Scheme
//
// Every resource kind gets a Namespace. Two key shapes exist per kind:
//
//	ns := cache.NewNamespace("project", nil)
//	ns.Collection(42)   // "project::all::42"  -> user 42's ordered list
//	ns.Entity(7, 42)    // "project::7::42"    -> project 7 as seen by user 42
//
// Because the user id is always part of the key, two tenants can never read each
// other's entries, even for the same entity id.
//
// # Expiry
//
// Entries carry their own expiry instant. A Get past that instant is a miss even if
// the entry was not physically purged yet; the sturdyc eviction loop is only a sweep.
//
// # Invalidation
//
// Invalidate is idempotent and never fails for an absent key. Writers invalidate after
// the persistence write succeeded and never write a fresh value into the cache; the
// next reader repopulates it.
package cache
