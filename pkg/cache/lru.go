package cache

import (
	"container/list"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/commons/pkg/logger"
)

// EvictFunc is called once for every entry removed because the cache grew
// past its bound. size is the number of slots before the removal. value is
// the zero value if the entry had already been reclaimed.
//
// The callback runs on the goroutine calling Put while the cache lock is
// held. It must be fast and must not call back into the same cache.
type EvictFunc[K comparable, V any] func(size int, key K, value V)

// SoftLRU is a bounded, access-ordered cache whose values are held through
// reclaimable references. Once the cache holds more than maxSize slots the
// least recently used one is evicted and the eviction callback fires.
//
// Values may disappear at any time outside the cache's control, either because
// the host trimmed the cache under memory pressure or, for caches built with
// NewWeak or WithWeakValues, because the garbage collector freed them. A
// reclaimed value reads as a miss and its slot is purged lazily.
type SoftLRU[K comparable, V any] struct {
	maxSize  int
	items    map[K]*list.Element
	order    *list.List // front = most recently used
	mu       sync.Mutex
	onEvict  EvictFunc[K, V]
	hold     holdFunc[K, V]
	name     string
	logger   *slog.Logger
	recorder Recorder
	stats    counters

	staleMu sync.Mutex
	stale   []*slot[K, V]
}

// New creates a cache bounded to maxSize slots. maxSize == 0 is valid and
// evicts every entry right after it is inserted.
func New[K comparable, V any](maxSize int, opts ...Option) (*SoftLRU[K, V], error) {
	return NewWithEvict[K, V](maxSize, nil, opts...)
}

// NewWithEvict is like New but registers onEvict as the eviction callback.
// A nil onEvict is a no-op.
func NewWithEvict[K comparable, V any](maxSize int, onEvict EvictFunc[K, V], opts ...Option) (*SoftLRU[K, V], error) {
	if maxSize < 0 {
		return nil, ErrInvalidMaxSize
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	c := &SoftLRU[K, V]{
		maxSize:  maxSize,
		items:    make(map[K]*list.Element),
		order:    list.New(),
		onEvict:  onEvict,
		hold:     holdStrong[K, V],
		name:     o.name,
		logger:   o.logger,
		recorder: o.recorder,
	}
	if o.weak {
		c.hold = holdBoxed[K, V]
	}
	return c, nil
}

// NewWeak creates a cache of pointers that refers to each cached object
// weakly. An object stays cached while something outside the cache keeps it
// reachable and is reclaimed by the garbage collector afterwards. Nil
// pointers are stored strongly.
func NewWeak[K comparable, T any](maxSize int, onEvict EvictFunc[K, *T], opts ...Option) (*SoftLRU[K, *T], error) {
	c, err := NewWithEvict(maxSize, onEvict, opts...)
	if err != nil {
		return nil, err
	}
	c.hold = holdPointer[K, T]
	return c, nil
}

// MustNew works like NewWithEvict but panics on an invalid bound.
func MustNew[K comparable, V any](maxSize int, onEvict EvictFunc[K, V], opts ...Option) *SoftLRU[K, V] {
	c, err := NewWithEvict(maxSize, onEvict, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewFromConfig builds a cache from an env-loaded Config.
// Explicit options are applied after the ones derived from cfg.
func NewFromConfig[K comparable, V any](cfg Config, onEvict EvictFunc[K, V], opts ...Option) (*SoftLRU[K, V], error) {
	base := []Option{WithName(cfg.Name)}
	if cfg.WeakValues {
		base = append(base, WithWeakValues())
	}
	return NewWithEvict(cfg.MaxSize, onEvict, append(base, opts...)...)
}

// MaxSize returns the bound the cache was created with.
func (c *SoftLRU[K, V]) MaxSize() int {
	return c.maxSize
}

// Name returns the name used in logs and stats.
func (c *SoftLRU[K, V]) Name() string {
	return c.name
}

// Get returns the live value for key and marks it most recently used.
// A reclaimed value is reported as a miss and its slot is dropped.
func (c *SoftLRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		c.miss()
		return zero, false
	}

	v, live := elem.Value.(*slot[K, V]).ref.load()
	if !live {
		c.unlink(elem)
		c.miss()
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hit()
	return v, true
}

// Peek returns the live value for key without touching recency.
func (c *SoftLRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		return elem.Value.(*slot[K, V]).ref.load()
	}
	var zero V
	return zero, false
}

// Contains reports whether key holds a live value, without touching recency.
func (c *SoftLRU[K, V]) Contains(key K) bool {
	_, ok := c.Peek(key)
	return ok
}

// Put stores value under key and marks it most recently used. It returns the
// previous value if the key was present and not yet reclaimed. If the cache
// now holds more than MaxSize slots, the least recently used one is evicted.
func (c *SoftLRU[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drainStale()

	if elem, ok := c.items[key]; ok {
		old := elem.Value.(*slot[K, V])
		prev, live := old.ref.load()
		old.ref.release()
		elem.Value = c.newSlot(key, value)
		c.order.MoveToFront(elem)
		return prev, live
	}

	c.items[key] = c.order.PushFront(c.newSlot(key, value))
	if c.order.Len() > c.maxSize {
		c.evictEldest()
	}

	var zero V
	return zero, false
}

// Remove deletes key and returns its value if it was still live.
// The eviction callback is not invoked.
func (c *SoftLRU[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drainStale()

	if elem, ok := c.items[key]; ok {
		v, live := elem.Value.(*slot[K, V]).ref.load()
		c.unlink(elem)
		return v, live
	}

	var zero V
	return zero, false
}

// Size returns the number of slots, including reclaimed ones not purged yet.
func (c *SoftLRU[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns all keys ordered from least to most recently used.
func (c *SoftLRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for e := c.order.Back(); e != nil; e = e.Prev() {
		keys = append(keys, e.Value.(*slot[K, V]).key)
	}
	return keys
}

// Clear removes every entry without invoking the eviction callback.
func (c *SoftLRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.order.Front(); e != nil; e = e.Next() {
		e.Value.(*slot[K, V]).ref.release()
	}
	c.items = make(map[K]*list.Element)
	c.order.Init()

	c.staleMu.Lock()
	c.stale = nil
	c.staleMu.Unlock()
}

// Must be called with lock held.
func (c *SoftLRU[K, V]) evictEldest() {
	elem := c.order.Back()
	if elem == nil {
		return
	}

	size := c.order.Len()
	s := elem.Value.(*slot[K, V])
	v, _ := s.ref.load()
	c.unlink(elem)

	c.stats.evictions.Add(1)
	c.recorder.Evict()
	c.logger.Debug("cache.evict", logger.Cache(c.name), logger.Key(s.key), logger.Size(size))

	if c.onEvict != nil {
		c.onEvict(size, s.key, v)
	}
}

// Must be called with lock held.
func (c *SoftLRU[K, V]) unlink(elem *list.Element) {
	s := elem.Value.(*slot[K, V])
	c.order.Remove(elem)
	delete(c.items, s.key)
	s.ref.release()
}

func (c *SoftLRU[K, V]) newSlot(key K, value V) *slot[K, V] {
	s := &slot[K, V]{key: key}
	s.ref = c.hold(c, s, value)
	return s
}

// collected runs on the runtime's cleanup goroutine after the garbage
// collector freed a weakly held value.
func (c *SoftLRU[K, V]) collected(t gcTicket[K, V]) {
	if t.state.reclaim() {
		c.markReclaimed(t.slot)
	}
}

func (c *SoftLRU[K, V]) hit() {
	c.stats.hits.Add(1)
	c.recorder.Hit()
}

func (c *SoftLRU[K, V]) miss() {
	c.stats.misses.Add(1)
	c.recorder.Miss()
}
