package cache_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/commons/pkg/cache"
)

type evicted struct {
	size  int
	key   string
	value int
}

func newRecordingCache(t *testing.T, maxSize int) (*cache.SoftLRU[string, int], *[]evicted) {
	t.Helper()
	var calls []evicted
	c, err := cache.NewWithEvict(maxSize, func(size int, key string, value int) {
		calls = append(calls, evicted{size: size, key: key, value: value})
	})
	require.NoError(t, err)
	return c, &calls
}

func TestSoftLRU_New(t *testing.T) {
	t.Run("negative size", func(t *testing.T) {
		c, err := cache.New[string, int](-1)
		assert.ErrorIs(t, err, cache.ErrInvalidMaxSize)
		assert.Nil(t, c)
	})

	t.Run("max size is kept", func(t *testing.T) {
		c, err := cache.New[string, int](5)
		require.NoError(t, err)
		assert.Equal(t, 5, c.MaxSize())
		assert.Equal(t, 0, c.Size())
	})

	t.Run("must new panics on negative size", func(t *testing.T) {
		assert.Panics(t, func() {
			cache.MustNew[string, int](-3, nil)
		})
	})

	t.Run("from config", func(t *testing.T) {
		c, err := cache.NewFromConfig[string, int](cache.Config{Name: "sessions", MaxSize: 3}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, c.MaxSize())
		assert.Equal(t, "sessions", c.Name())
	})
}

func TestSoftLRU_Basic(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		c, _ := cache.New[string, int](3)

		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)

		val, ok = c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 2, c.Size())
	})

	t.Run("get non-existent", func(t *testing.T) {
		c, _ := cache.New[string, int](3)

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Equal(t, 0, val)
	})

	t.Run("replacement returns previous value", func(t *testing.T) {
		c, _ := cache.New[string, int](3)

		prev, existed := c.Put("a", 1)
		assert.False(t, existed)
		assert.Equal(t, 0, prev)

		prev, existed = c.Put("a", 2)
		assert.True(t, existed)
		assert.Equal(t, 1, prev)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Size())
	})

	t.Run("replacing a reclaimed value reports no previous value", func(t *testing.T) {
		c, _ := cache.New[string, int](3)

		c.Put("a", 1)
		require.True(t, c.Reclaim("a"))

		prev, existed := c.Put("a", 2)
		assert.False(t, existed)
		assert.Equal(t, 0, prev)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})

	t.Run("peek and contains do not touch recency", func(t *testing.T) {
		c, _ := cache.New[string, int](2)

		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Peek("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.True(t, c.Contains("a"))
		assert.False(t, c.Contains("z"))

		c.Put("c", 3)
		assert.False(t, c.Contains("a"), "a should have been evicted")
	})
}

func TestSoftLRU_Remove(t *testing.T) {
	t.Run("remove existing", func(t *testing.T) {
		c, calls := newRecordingCache(t, 3)
		c.Put("a", 1)

		val, ok := c.Remove("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 0, c.Size())
		assert.Empty(t, *calls, "remove must not fire the eviction callback")
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		c, _ := cache.New[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		c.Remove("a")
		val, ok := c.Remove("a")
		assert.False(t, ok)
		assert.Equal(t, 0, val)
		assert.Equal(t, []string{"b"}, c.Keys())
	})

	t.Run("remove missing", func(t *testing.T) {
		c, _ := cache.New[string, int](3)
		_, ok := c.Remove("nope")
		assert.False(t, ok)
	})

	t.Run("clear does not fire callback", func(t *testing.T) {
		c, calls := newRecordingCache(t, 3)
		c.Put("a", 1)
		c.Put("b", 2)

		c.Clear()
		assert.Equal(t, 0, c.Size())
		assert.Empty(t, *calls)

		c.Put("c", 3)
		assert.Equal(t, []string{"c"}, c.Keys())
	})
}

func TestSoftLRU_Eviction(t *testing.T) {
	t.Run("get refreshes recency", func(t *testing.T) {
		c, calls := newRecordingCache(t, 2)

		c.Put("A", 1)
		c.Put("B", 2)
		c.Get("A")
		c.Put("C", 3)

		assert.ElementsMatch(t, []string{"A", "C"}, c.Keys())
		require.Len(t, *calls, 1)
		assert.Equal(t, evicted{size: 3, key: "B", value: 2}, (*calls)[0])
	})

	t.Run("put refreshes recency", func(t *testing.T) {
		c, _ := cache.New[string, int](3)

		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)
		c.Put("a", 10)
		c.Put("d", 4)

		assert.Equal(t, []string{"c", "a", "d"}, c.Keys())
	})

	t.Run("one callback per over-capacity put", func(t *testing.T) {
		c, calls := newRecordingCache(t, 2)

		c.Put("a", 1)
		c.Put("b", 2)
		assert.Empty(t, *calls)

		c.Put("c", 3)
		c.Put("d", 4)
		c.Put("d", 5)

		require.Len(t, *calls, 2)
		assert.Equal(t, "a", (*calls)[0].key)
		assert.Equal(t, "b", (*calls)[1].key)
		assert.Equal(t, uint64(2), c.Stats().Evictions)
	})

	t.Run("bound holds after every put", func(t *testing.T) {
		c, _ := cache.New[int, int](7)
		for i := range 100 {
			c.Put(i%13, i)
			if i%3 == 0 {
				c.Get(i % 5)
			}
			assert.LessOrEqual(t, c.Size(), 7)
		}
	})

	t.Run("zero capacity evicts immediately", func(t *testing.T) {
		c, calls := newRecordingCache(t, 0)

		prev, existed := c.Put("A", 1)
		assert.False(t, existed)
		assert.Equal(t, 0, prev)

		_, ok := c.Get("A")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Size())
		require.Len(t, *calls, 1)
		assert.Equal(t, evicted{size: 1, key: "A", value: 1}, (*calls)[0])
	})

	t.Run("capacity of 1", func(t *testing.T) {
		c, _ := cache.New[string, int](1)

		c.Put("a", 1)
		c.Put("b", 2)

		_, ok := c.Get("a")
		assert.False(t, ok)

		val, ok := c.Get("b")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})
}

func TestSoftLRU_Reclamation(t *testing.T) {
	t.Run("reclaimed value reads as miss", func(t *testing.T) {
		c, calls := newRecordingCache(t, 3)
		c.Put("a", 1)

		assert.True(t, c.Reclaim("a"))
		assert.False(t, c.Reclaim("a"), "second reclaim is a no-op")
		assert.False(t, c.Reclaim("missing"))

		assert.Equal(t, 1, c.Size(), "slot stays until purged")
		val, ok := c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 0, val)
		assert.Equal(t, 0, c.Size(), "get drops the stale slot")
		assert.Empty(t, *calls, "reclamation must not fire the eviction callback")
	})

	t.Run("trim reclaims least recently used first", func(t *testing.T) {
		c, _ := cache.New[string, int](5)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)
		c.Get("a")

		assert.Equal(t, 2, c.Trim(2))
		assert.False(t, c.Contains("b"))
		assert.False(t, c.Contains("c"))
		assert.True(t, c.Contains("a"))
		assert.Equal(t, uint64(2), c.Stats().Reclaimed)

		assert.Equal(t, 0, c.Trim(0))
		assert.Equal(t, 1, c.Trim(10))
	})

	t.Run("purge stale sweeps reclaimed slots", func(t *testing.T) {
		c, _ := cache.New[string, int](5)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)
		c.Trim(2)

		assert.Equal(t, 3, c.Size())
		assert.Equal(t, 2, c.PurgeStale())
		assert.Equal(t, []string{"c"}, c.Keys())
		assert.Equal(t, 0, c.PurgeStale())
	})

	t.Run("put drains the reclaim queue", func(t *testing.T) {
		c, _ := cache.New[string, int](5)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Reclaim("a")

		c.Put("c", 3)
		assert.Equal(t, []string{"b", "c"}, c.Keys())
	})
}

type blob struct {
	data [256]byte
}

func TestSoftLRU_WeakValues(t *testing.T) {
	t.Run("gc reclaims boxed values", func(t *testing.T) {
		c, err := cache.New[string, []byte](3, cache.WithWeakValues())
		require.NoError(t, err)

		c.Put("a", make([]byte, 1024))
		runtime.GC()

		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("cleanup queues the stale slot", func(t *testing.T) {
		c, err := cache.New[string, []byte](3, cache.WithWeakValues())
		require.NoError(t, err)

		c.Put("a", make([]byte, 1024))
		require.Eventually(t, func() bool {
			runtime.GC()
			return c.Stats().Reclaimed == 1
		}, 2*time.Second, 10*time.Millisecond)

		c.Put("b", make([]byte, 16))
		assert.Equal(t, []string{"b"}, c.Keys())
	})

	t.Run("removed values are not reported as reclaimed", func(t *testing.T) {
		c, err := cache.New[string, []byte](3, cache.WithWeakValues())
		require.NoError(t, err)

		c.Put("a", make([]byte, 1024))
		c.Remove("a")
		runtime.GC()
		runtime.GC()

		assert.Equal(t, uint64(0), c.Stats().Reclaimed)
	})

	t.Run("referenced pointers stay cached", func(t *testing.T) {
		c, err := cache.NewWeak[string, blob](3, nil)
		require.NoError(t, err)

		b := &blob{}
		b.data[0] = 7
		c.Put("a", b)
		runtime.GC()

		got, ok := c.Get("a")
		require.True(t, ok)
		assert.Same(t, b, got)
		runtime.KeepAlive(b)
	})

	t.Run("unreferenced pointers are reclaimed", func(t *testing.T) {
		c, err := cache.NewWeak[string, blob](3, nil)
		require.NoError(t, err)

		c.Put("a", &blob{})
		require.Eventually(t, func() bool {
			runtime.GC()
			return c.Stats().Reclaimed == 1
		}, 2*time.Second, 10*time.Millisecond)

		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Size(), "get drops the stale slot")
	})

	t.Run("nil pointers are stored", func(t *testing.T) {
		c, err := cache.NewWeak[string, blob](3, nil)
		require.NoError(t, err)

		c.Put("nil", nil)
		runtime.GC()

		got, ok := c.Get("nil")
		assert.True(t, ok)
		assert.Nil(t, got)
	})

	t.Run("eviction hook sees the live pointer", func(t *testing.T) {
		var got *blob
		c, err := cache.NewWeak(1, func(_ int, _ string, v *blob) { got = v })
		require.NoError(t, err)

		first := &blob{}
		c.Put("a", first)
		c.Put("b", &blob{})

		assert.Same(t, first, got)
		runtime.KeepAlive(first)
	})
}

type countingRecorder struct {
	mu                               sync.Mutex
	hits, misses, evicts, reclaimeds int
}

func (r *countingRecorder) Hit()     { r.mu.Lock(); r.hits++; r.mu.Unlock() }
func (r *countingRecorder) Miss()    { r.mu.Lock(); r.misses++; r.mu.Unlock() }
func (r *countingRecorder) Evict()   { r.mu.Lock(); r.evicts++; r.mu.Unlock() }
func (r *countingRecorder) Reclaim() { r.mu.Lock(); r.reclaimeds++; r.mu.Unlock() }

func TestSoftLRU_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	c, err := cache.New[string, int](1, cache.WithRecorder(rec), cache.WithName("rec"))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Get("a")
	c.Get("b")
	c.Put("b", 2)
	c.Reclaim("b")

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 1, rec.evicts)
	assert.Equal(t, 1, rec.reclaimeds)
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1, Evictions: 1, Reclaimed: 1}, c.Stats())
}

func TestSoftLRU_Concurrent(t *testing.T) {
	var evictions int
	c, err := cache.NewWithEvict(50, func(int, int, int) { evictions++ })
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := range 500 {
				key := (i + offset*31) % 120
				switch i % 5 {
				case 0, 1:
					c.Put(key, i)
				case 2:
					c.Get(key)
				case 3:
					c.Remove(key)
				case 4:
					c.Trim(1)
				}
			}
		}(w)
	}
	wg.Wait()

	c.PurgeStale()
	assert.LessOrEqual(t, c.Size(), 50)
	assert.Equal(t, uint64(evictions), c.Stats().Evictions)
}

func BenchmarkSoftLRU_Put(b *testing.B) {
	c, _ := cache.New[int, int](1000)

	b.ResetTimer()
	for i := range b.N {
		c.Put(i%2000, i)
	}
}

func BenchmarkSoftLRU_Get(b *testing.B) {
	c, _ := cache.New[int, int](1000)
	for i := range 1000 {
		c.Put(i, i)
	}

	b.ResetTimer()
	for i := range b.N {
		c.Get(i % 1000)
	}
}

func BenchmarkSoftLRU_WeakMixed(b *testing.B) {
	c, _ := cache.New[int, []byte](1000, cache.WithWeakValues())
	payload := make([]byte, 32)

	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			c.Put(i%2000, payload)
		} else {
			c.Get(i % 2000)
		}
	}
}
