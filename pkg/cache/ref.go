package cache

import (
	"runtime"
	"sync/atomic"
	"weak"
)

// ref is a reclaimable holder for a cached value. Implementations must be
// safe to clear from any goroutine without the cache lock.
type ref[V any] interface {
	// load returns the value and true while it has not been reclaimed.
	load() (V, bool)
	// reclaim drops the value. It reports whether this call did the reclaiming.
	reclaim() bool
	// release is called once the slot leaves the cache. Afterwards load and
	// reclaim report false.
	release()
}

// strongRef keeps the value reachable until something reclaims it explicitly.
type strongRef[V any] struct {
	p atomic.Pointer[V]
}

func newStrongRef[V any](v V) *strongRef[V] {
	r := &strongRef[V]{}
	r.p.Store(&v)
	return r
}

func (r *strongRef[V]) load() (V, bool) {
	if p := r.p.Load(); p != nil {
		return *p, true
	}
	var zero V
	return zero, false
}

func (r *strongRef[V]) reclaim() bool {
	return r.p.Swap(nil) != nil
}

func (r *strongRef[V]) release() {
	r.p.Store(nil)
}

// weakState is shared by the weak holders. cleared flips once, either when
// the host reclaims the value or when the runtime cleanup reports it freed.
type weakState struct {
	cleared atomic.Bool
	cleanup runtime.Cleanup
}

func (w *weakState) reclaim() bool {
	return w.cleared.CompareAndSwap(false, true)
}

func (w *weakState) release() {
	w.cleared.Store(true)
	w.cleanup.Stop()
}

// boxedRef copies the value into a box only the weak pointer refers to, so
// the next GC cycle frees it.
type boxedRef[V any] struct {
	weakState
	wp weak.Pointer[V]
}

func (r *boxedRef[V]) load() (V, bool) {
	if !r.cleared.Load() {
		if p := r.wp.Value(); p != nil {
			return *p, true
		}
	}
	var zero V
	return zero, false
}

// pointerRef refers weakly to the caller's own object, which stays cached
// for as long as something outside the cache keeps it reachable.
type pointerRef[T any] struct {
	weakState
	wp weak.Pointer[T]
}

func (r *pointerRef[T]) load() (*T, bool) {
	if !r.cleared.Load() {
		if p := r.wp.Value(); p != nil {
			return p, true
		}
	}
	return nil, false
}

// slot is one cache entry. The key is kept alongside the holder so a
// reclaimed value can still be traced back to the entry it belonged to.
type slot[K comparable, V any] struct {
	key K
	ref ref[V]
}

// gcTicket is handed to runtime.AddCleanup. It must not reach the tracked
// object, so it carries the weak state rather than the holder's value.
type gcTicket[K comparable, V any] struct {
	state *weakState
	slot  *slot[K, V]
}

// holdFunc wraps a value for storage in s.
type holdFunc[K comparable, V any] func(c *SoftLRU[K, V], s *slot[K, V], v V) ref[V]

func holdStrong[K comparable, V any](_ *SoftLRU[K, V], _ *slot[K, V], v V) ref[V] {
	return newStrongRef(v)
}

func holdBoxed[K comparable, V any](c *SoftLRU[K, V], s *slot[K, V], v V) ref[V] {
	box := new(V)
	*box = v
	r := &boxedRef[V]{wp: weak.Make(box)}
	r.cleanup = runtime.AddCleanup(box, c.collected, gcTicket[K, V]{state: &r.weakState, slot: s})
	return r
}

func holdPointer[K comparable, T any](c *SoftLRU[K, *T], s *slot[K, *T], v *T) ref[*T] {
	if v == nil {
		return newStrongRef(v)
	}
	r := &pointerRef[T]{wp: weak.Make(v)}
	r.cleanup = runtime.AddCleanup(v, c.collected, gcTicket[K, *T]{state: &r.weakState, slot: s})
	return r
}
