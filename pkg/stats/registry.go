package stats

import (
	"slices"
	"sync"
)

// Kind names a handler type. It is also the path segment used by Handler.
type Kind string

const (
	KindCounter      Kind = "counter"
	KindKeyedCounter Kind = "keyed-counter"
	KindTimer        Kind = "timer"
	KindSize         Kind = "size"
	KindCache        Kind = "cache"
)

// Visitor is called once per registered handler by Registry.Visit.
type Visitor interface {
	OnCounter(name string, h *Counter)
	OnKeyedCounter(name string, h *KeyedCounter)
	OnTimer(name string, h *Timer)
	OnSize(name string, h *Size)
	OnCache(name string, h *CacheHandler)
}

// Registry hands out named statistics handlers. Names are unique per kind:
// asking twice for the same kind and name returns the same handler.
type Registry struct {
	mu            sync.RWMutex
	counters      map[string]*Counter
	keyedCounters map[string]*KeyedCounter
	timers        map[string]*Timer
	sizes         map[string]*Size
	caches        map[string]*CacheHandler
}

func NewRegistry() *Registry {
	return &Registry{
		counters:      make(map[string]*Counter),
		keyedCounters: make(map[string]*KeyedCounter),
		timers:        make(map[string]*Timer),
		sizes:         make(map[string]*Size),
		caches:        make(map[string]*CacheHandler),
	}
}

// getOrCreate returns m[name], creating it with mk under the write lock.
func getOrCreate[H any](r *Registry, m map[string]H, name string, mk func() H) H {
	r.mu.RLock()
	h, ok := m[name]
	r.mu.RUnlock()
	if ok {
		return h
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := m[name]; ok {
		return h
	}
	h = mk()
	m[name] = h
	return h
}

func (r *Registry) Counter(name string) *Counter {
	return getOrCreate(r, r.counters, name, func() *Counter { return &Counter{} })
}

func (r *Registry) KeyedCounter(name string) *KeyedCounter {
	return getOrCreate(r, r.keyedCounters, name, newKeyedCounter)
}

func (r *Registry) Timer(name string) *Timer {
	return getOrCreate(r, r.timers, name, func() *Timer { return &Timer{} })
}

func (r *Registry) Size(name string) *Size {
	return getOrCreate(r, r.sizes, name, func() *Size { return &Size{} })
}

func (r *Registry) Cache(name string) *CacheHandler {
	return getOrCreate(r, r.caches, name, func() *CacheHandler { return &CacheHandler{} })
}

// Visit walks all handlers, kind by kind, names in ascending order. Handlers
// registered while Visit runs may or may not be seen.
func (r *Registry) Visit(v Visitor) {
	r.mu.RLock()
	counters := sortedEntries(r.counters)
	keyed := sortedEntries(r.keyedCounters)
	timers := sortedEntries(r.timers)
	sizes := sortedEntries(r.sizes)
	caches := sortedEntries(r.caches)
	r.mu.RUnlock()

	for _, e := range counters {
		v.OnCounter(e.name, e.h)
	}
	for _, e := range keyed {
		v.OnKeyedCounter(e.name, e.h)
	}
	for _, e := range timers {
		v.OnTimer(e.name, e.h)
	}
	for _, e := range sizes {
		v.OnSize(e.name, e.h)
	}
	for _, e := range caches {
		v.OnCache(e.name, e.h)
	}
}

type entry[H any] struct {
	name string
	h    H
}

func sortedEntries[H any](m map[string]H) []entry[H] {
	out := make([]entry[H], 0, len(m))
	for name, h := range m {
		out = append(out, entry[H]{name: name, h: h})
	}
	slices.SortFunc(out, func(a, b entry[H]) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		}
		return 0
	})
	return out
}
