package cache

import (
	"container/list"
	"sync"
	"time"
)

// Reason tells an eviction callback why an entry left the cache.
type Reason int

const (
	// Capacity means the entry was the least recently used one when a new
	// entry did not fit.
	Capacity Reason = iota
	// Expired means the entry was idle for longer than the TTL.
	Expired
	// Removed means Remove or Clear dropped the entry.
	Removed
)

func (r Reason) String() string {
	switch r {
	case Capacity:
		return "capacity"
	case Expired:
		return "expired"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

type lruEntry[K comparable, V any] struct {
	key      K
	value    V
	lastUsed time.Time
}

type eviction[K comparable, V any] struct {
	key    K
	value  V
	reason Reason
}

// LRU is a thread-safe least recently used cache with an optional idle TTL.
// Eviction callbacks run after the internal lock is released, so they may
// call back into the cache.
type LRU[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(key K, value V, reason Reason)

	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List
}

// New creates a cache holding at most capacity entries. A positive ttl
// expires entries not touched for that long; zero disables expiry.
// It panics when capacity is not positive or ttl is negative.
func New[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: capacity must be positive")
	}
	if ttl < 0 {
		panic("cache: ttl must not be negative")
	}
	return &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// SetEvictCallback registers fn for every entry leaving the cache.
func (c *LRU[K, V]) SetEvictCallback(fn func(key K, value V, reason Reason)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// SetClock replaces the time source used for expiry.
func (c *LRU[K, V]) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Get returns the value for key and marks it as recently used. Expired
// entries are evicted and reported as missing.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}
	entry := elem.Value.(*lruEntry[K, V])
	now := c.now()
	if c.expired(entry, now) {
		ev := c.removeElement(elem, Expired)
		c.mu.Unlock()
		c.notify(ev)
		return zero, false
	}
	entry.lastUsed = now
	c.order.MoveToFront(elem)
	value := entry.value
	c.mu.Unlock()
	return value, true
}

// Put adds or replaces the value for key. The previous value, if any, is
// returned. Replacing a value does not fire the eviction callback.
func (c *LRU[K, V]) Put(key K, value V) (V, bool) {
	var (
		zero    V
		evicted []eviction[K, V]
	)

	c.mu.Lock()
	now := c.now()
	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*lruEntry[K, V])
		old := entry.value
		entry.value = value
		entry.lastUsed = now
		c.order.MoveToFront(elem)
		c.mu.Unlock()
		return old, true
	}

	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value, lastUsed: now})
	for c.order.Len() > c.capacity {
		evicted = append(evicted, c.removeElement(c.order.Back(), Capacity))
	}
	c.mu.Unlock()

	c.notify(evicted...)
	return zero, false
}

// Remove drops key from the cache.
func (c *LRU[K, V]) Remove(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}
	ev := c.removeElement(elem, Removed)
	c.mu.Unlock()

	c.notify(ev)
	return ev.value, true
}

// Prune evicts every expired entry and reports how many were dropped.
func (c *LRU[K, V]) Prune() int {
	if c.ttl == 0 {
		return 0
	}

	var evicted []eviction[K, V]
	c.mu.Lock()
	now := c.now()
	// Oldest entries sit at the back.
	for elem := c.order.Back(); elem != nil; {
		entry := elem.Value.(*lruEntry[K, V])
		if !c.expired(entry, now) {
			break
		}
		prev := elem.Prev()
		evicted = append(evicted, c.removeElement(elem, Expired))
		elem = prev
	}
	c.mu.Unlock()

	c.notify(evicted...)
	return len(evicted)
}

// Len reports the number of entries, expired ones included until pruned.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes every entry, reporting each as Removed.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	evicted := make([]eviction[K, V], 0, c.order.Len())
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		entry := elem.Value.(*lruEntry[K, V])
		evicted = append(evicted, eviction[K, V]{key: entry.key, value: entry.value, reason: Removed})
	}
	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	c.notify(evicted...)
}

func (c *LRU[K, V]) expired(e *lruEntry[K, V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(e.lastUsed) >= c.ttl
}

// Must be called with lock held.
func (c *LRU[K, V]) removeElement(elem *list.Element, reason Reason) eviction[K, V] {
	c.order.Remove(elem)
	entry := elem.Value.(*lruEntry[K, V])
	delete(c.items, entry.key)
	return eviction[K, V]{key: entry.key, value: entry.value, reason: reason}
}

func (c *LRU[K, V]) notify(evicted ...eviction[K, V]) {
	if len(evicted) == 0 {
		return
	}
	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, ev := range evicted {
		fn(ev.key, ev.value, ev.reason)
	}
}
