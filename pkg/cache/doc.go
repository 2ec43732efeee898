// Package cache provides a generic, thread-safe LRU cache with optional
// idle expiry.
//
// The handler package keeps live forms in it: a form that is neither
// touched for the TTL nor among the most recent capacity forms is dropped,
// and the eviction callback tells the caller why.
//
//	forms := cache.New[string, *Session](1024, 30*time.Minute)
//	forms.SetEvictCallback(func(id string, s *Session, reason cache.Reason) {
//		log.Debug("form evicted", "form_id", id, "reason", reason)
//	})
//
// Get refreshes the idle timer of an entry. Expired entries are dropped
// lazily on Get or eagerly with Prune, which a background ticker can call.
// Callbacks run outside the cache lock.
package cache
