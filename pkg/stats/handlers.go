package stats

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically growing number.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Inc()         { c.n.Add(1) }
func (c *Counter) Add(n int64)  { c.n.Add(n) }
func (c *Counter) Value() int64 { return c.n.Load() }

// KeyedCounter counts per key.
type KeyedCounter struct {
	mu sync.Mutex
	m  map[string]int64
}

func newKeyedCounter() *KeyedCounter {
	return &KeyedCounter{m: make(map[string]int64)}
}

func (k *KeyedCounter) Inc(key string) { k.Add(key, 1) }

func (k *KeyedCounter) Add(key string, n int64) {
	k.mu.Lock()
	k.m[key] += n
	k.mu.Unlock()
}

// Value returns the count for key, zero if it was never touched.
func (k *KeyedCounter) Value(key string) int64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.m[key]
}

// Snapshot returns a copy of all counts.
func (k *KeyedCounter) Snapshot() map[string]int64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return maps.Clone(k.m)
}

// Aggregate summarises a series of observations.
type Aggregate struct {
	Count int64 `json:"count" yaml:"count"`
	Sum   int64 `json:"sum" yaml:"sum"`
	Min   int64 `json:"min" yaml:"min"`
	Max   int64 `json:"max" yaml:"max"`
}

// Average returns Sum/Count, or zero without observations.
func (a Aggregate) Average() int64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / a.Count
}

type aggregator struct {
	mu  sync.Mutex
	agg Aggregate
}

func (a *aggregator) observe(v int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.agg.Count == 0 || v < a.agg.Min {
		a.agg.Min = v
	}
	if a.agg.Count == 0 || v > a.agg.Max {
		a.agg.Max = v
	}
	a.agg.Count++
	a.agg.Sum += v
}

func (a *aggregator) snapshot() Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.agg
}

// Timer aggregates durations in milliseconds.
type Timer struct {
	aggregator
}

func (t *Timer) Observe(d time.Duration) { t.observe(d.Milliseconds()) }

// Time runs fn and records how long it took.
func (t *Timer) Time(fn func()) {
	start := time.Now()
	fn()
	t.Observe(time.Since(start))
}

func (t *Timer) Snapshot() Aggregate { return t.snapshot() }

// Size aggregates observed sizes, e.g. the number of entries in a cache.
type Size struct {
	aggregator
}

func (s *Size) Observe(n int)       { s.observe(int64(n)) }
func (s *Size) Snapshot() Aggregate { return s.snapshot() }

// CacheSnapshot is a point-in-time copy of a CacheHandler.
type CacheSnapshot struct {
	Hits      int64 `json:"hits" yaml:"hits"`
	Misses    int64 `json:"misses" yaml:"misses"`
	Evictions int64 `json:"evictions" yaml:"evictions"`
	Reclaimed int64 `json:"reclaimed" yaml:"reclaimed"`
}

// HitRatio returns hits/(hits+misses), or zero without lookups.
func (s CacheSnapshot) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheHandler counts cache activity. It satisfies cache.Recorder, so it
// can be passed straight to cache.WithRecorder.
type CacheHandler struct {
	hits, misses, evictions, reclaimed atomic.Int64
}

func (c *CacheHandler) Hit()     { c.hits.Add(1) }
func (c *CacheHandler) Miss()    { c.misses.Add(1) }
func (c *CacheHandler) Evict()   { c.evictions.Add(1) }
func (c *CacheHandler) Reclaim() { c.reclaimed.Add(1) }

func (c *CacheHandler) Snapshot() CacheSnapshot {
	return CacheSnapshot{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Reclaimed: c.reclaimed.Load(),
	}
}
