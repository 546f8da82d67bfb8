package cache

import (
	"context"
	"log/slog"
	"math"
	"runtime/metrics"
	"sort"
	"sync"
	"time"

	"github.com/dmitrymomot/commons/pkg/logger"
)

const heapObjectsMetric = "/memory/classes/heap/objects:bytes"

// Trimmer is implemented by caches that can shed values under memory pressure.
type Trimmer interface {
	Size() int
	Trim(n int) int
}

// HeapReader reports the current heap usage in bytes.
type HeapReader func() uint64

// Guard watches heap usage and trims registered caches once it goes over
// the soft limit. It is the explicit memory-pressure signal that stands in
// for soft references.
type Guard struct {
	cfg      GuardConfig
	readHeap HeapReader
	logger   *slog.Logger

	mu     sync.Mutex
	caches map[string]Trimmer
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithHeapReader replaces the runtime/metrics based heap reader.
func WithHeapReader(r HeapReader) GuardOption {
	return func(g *Guard) {
		if r != nil {
			g.readHeap = r
		}
	}
}

// WithGuardLogger sets the logger used for trim reports.
func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGuard validates cfg and returns an idle guard. Call Run to start polling.
func NewGuard(cfg GuardConfig, opts ...GuardOption) (*Guard, error) {
	if cfg.Interval <= 0 || cfg.TrimFraction <= 0 || cfg.TrimFraction > 1 {
		return nil, ErrInvalidGuardConfig
	}

	g := &Guard{
		cfg:      cfg,
		readHeap: readHeapObjects,
		logger:   logger.Noop(),
		caches:   make(map[string]Trimmer),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Register adds t under name, replacing any trimmer registered with that name.
func (g *Guard) Register(name string, t Trimmer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.caches[name] = t
}

// Unregister stops trimming the cache registered under name.
func (g *Guard) Unregister(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.caches, name)
}

// Run polls heap usage every Interval until ctx is done.
func (g *Guard) Run(ctx context.Context) error {
	t := time.NewTicker(g.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			g.Check()
		case <-ctx.Done():
			return nil
		}
	}
}

// Check reads heap usage once. Over the soft limit it trims every registered
// cache by TrimFraction of its size and returns the total number of values
// reclaimed. pressured reports whether the limit was exceeded.
func (g *Guard) Check() (reclaimed int, pressured bool) {
	heap := g.readHeap()
	if heap <= g.cfg.SoftLimit {
		return 0, false
	}

	g.mu.Lock()
	names := make([]string, 0, len(g.caches))
	for name := range g.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	targets := make([]Trimmer, len(names))
	for i, name := range names {
		targets[i] = g.caches[name]
	}
	g.mu.Unlock()

	for i, t := range targets {
		n := int(math.Ceil(float64(t.Size()) * g.cfg.TrimFraction))
		if n == 0 {
			continue
		}
		got := t.Trim(n)
		reclaimed += got
		g.logger.Info("cache.guard.trim",
			logger.Cache(names[i]),
			slog.Uint64("heap_bytes", heap),
			slog.Int("requested", n),
			logger.Count(got),
		)
	}
	return reclaimed, true
}

func readHeapObjects() uint64 {
	sample := []metrics.Sample{{Name: heapObjectsMetric}}
	metrics.Read(sample)
	if sample[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	return sample[0].Value.Uint64()
}
