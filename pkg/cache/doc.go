// Package cache provides a generic, thread-safe, bounded LRU cache whose values
// are held through reclaimable references.
//
// Three behaviours are composed in SoftLRU:
//
//   - Values are wrapped in a holder that can be cleared out-of-band, either by
//     the host reacting to memory pressure or by the garbage collector.
//   - Entries are kept in access order, so the eldest entry is always the least
//     recently used one.
//   - Once the cache holds more than its maximum size, the least recently used
//     entry is evicted and an optional callback is notified.
//
// # Usage
//
//	c, err := cache.NewWithEvict(100, func(size int, key string, conn *Conn) {
//		conn.Close()
//	})
//	if err != nil {
//		// only a negative size fails
//	}
//
//	c.Put("db1", conn)
//	if conn, ok := c.Get("db1"); ok {
//		// use conn
//	}
//	c.Remove("db1")
//
// A size of zero is allowed: every Put is evicted right away and the callback
// sees it.
//
// # Reclamation
//
// Go has weak pointers but no soft references, so two strategies are offered.
//
// By default values are held strongly and the cache behaves like a plain LRU
// until something calls Trim or Reclaim. A Guard polls heap usage through
// runtime/metrics and trims every registered cache when a soft limit is
// crossed:
//
//	guard, _ := cache.NewGuard(cache.GuardConfig{
//		SoftLimit:    512 << 20,
//		Interval:     10 * time.Second,
//		TrimFraction: 0.25,
//	})
//	guard.Register("sessions", c)
//	go guard.Run(ctx)
//
// NewWeak builds a cache of pointers held through weak pointers: an object
// stays cached while the application still references it and is reclaimed by
// the garbage collector afterwards. WithWeakValues does the same for any value
// type by copying it into a private box, which makes every value collectable
// on the next GC cycle. In both modes a runtime cleanup queues the stale slot,
// which is dropped on the next Put or Remove.
//
// Either way a reclaimed value reads as a miss. Size still counts the slot
// until it is purged, lazily or through PurgeStale.
//
// # Eviction callback
//
// The callback passed to NewWithEvict is called once per capacity-driven
// removal with the size before removal, the key and the value (the zero value
// if it had been reclaimed). It is not called for Remove, Clear or
// reclamation. It runs while the cache lock is held and after the entry has
// been unlinked, so it must not call back into the same cache.
//
// # Configuration
//
// Config and GuardConfig carry env tags and can be filled by the config
// package:
//
//	var cfg cache.Config
//	if err := config.Load(loader, &cfg); err != nil {
//		return err
//	}
//	c, err := cache.NewFromConfig[string, []byte](cfg, nil, cache.WithLogger(log))
package cache
