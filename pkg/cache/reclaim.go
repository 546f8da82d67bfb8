package cache

import (
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/commons/pkg/logger"
)

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      uint64 `json:"hits" yaml:"hits"`
	Misses    uint64 `json:"misses" yaml:"misses"`
	Evictions uint64 `json:"evictions" yaml:"evictions"`
	Reclaimed uint64 `json:"reclaimed" yaml:"reclaimed"`
}

type counters struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	reclaimed atomic.Uint64
}

// Stats returns the activity counters collected since construction.
func (c *SoftLRU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.stats.hits.Load(),
		Misses:    c.stats.misses.Load(),
		Evictions: c.stats.evictions.Load(),
		Reclaimed: c.stats.reclaimed.Load(),
	}
}

// Trim reclaims the values of up to n least recently used live entries and
// returns how many it reclaimed. The lock is held only to pick the victims;
// their values are dropped after it is released, so concurrent readers may
// still observe them until then. The slots stay in place until purged.
func (c *SoftLRU[K, V]) Trim(n int) int {
	if n <= 0 {
		return 0
	}

	c.mu.Lock()
	victims := make([]*slot[K, V], 0, min(n, c.order.Len()))
	for e := c.order.Back(); e != nil && len(victims) < n; e = e.Prev() {
		s := e.Value.(*slot[K, V])
		if _, live := s.ref.load(); live {
			victims = append(victims, s)
		}
	}
	c.mu.Unlock()

	reclaimed := 0
	for _, s := range victims {
		if c.reclaimSlot(s) {
			reclaimed++
		}
	}

	if reclaimed > 0 {
		c.logger.Debug("cache.trim", logger.Cache(c.name), slog.Int("requested", n), logger.Count(reclaimed))
	}
	return reclaimed
}

// Reclaim drops the value stored under key as if memory pressure had freed
// it. It reports whether a live value was reclaimed.
func (c *SoftLRU[K, V]) Reclaim(key K) bool {
	c.mu.Lock()
	elem, ok := c.items[key]
	var s *slot[K, V]
	if ok {
		s = elem.Value.(*slot[K, V])
	}
	c.mu.Unlock()

	if s == nil {
		return false
	}
	return c.reclaimSlot(s)
}

// PurgeStale removes every slot whose value has been reclaimed and returns
// the number of slots removed.
func (c *SoftLRU[K, V]) PurgeStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	purged := c.drainStale()
	for e := c.order.Front(); e != nil; {
		next := e.Next()
		if _, live := e.Value.(*slot[K, V]).ref.load(); !live {
			c.unlink(e)
			purged++
		}
		e = next
	}

	if purged > 0 {
		c.logger.Debug("cache.purge", logger.Cache(c.name), logger.Count(purged))
	}
	return purged
}

func (c *SoftLRU[K, V]) reclaimSlot(s *slot[K, V]) bool {
	if !s.ref.reclaim() {
		return false
	}
	c.markReclaimed(s)
	return true
}

// markReclaimed queues s for removal on the next structural operation.
// It never takes the cache lock.
func (c *SoftLRU[K, V]) markReclaimed(s *slot[K, V]) {
	c.stats.reclaimed.Add(1)
	c.recorder.Reclaim()

	c.staleMu.Lock()
	c.stale = append(c.stale, s)
	c.staleMu.Unlock()
}

// drainStale removes queued slots that are still the current entry for
// their key. Must be called with lock held.
func (c *SoftLRU[K, V]) drainStale() int {
	c.staleMu.Lock()
	queued := c.stale
	c.stale = nil
	c.staleMu.Unlock()

	purged := 0
	for _, s := range queued {
		elem, ok := c.items[s.key]
		if !ok || elem.Value.(*slot[K, V]) != s {
			continue
		}
		c.unlink(elem)
		purged++
	}
	return purged
}
