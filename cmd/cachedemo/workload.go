package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/dmitrymomot/commons/pkg/cache"
	"github.com/dmitrymomot/commons/pkg/collate"
	"github.com/dmitrymomot/commons/pkg/idfactory"
	"github.com/dmitrymomot/commons/pkg/logger"
	"github.com/dmitrymomot/commons/pkg/stats"
)

type product struct {
	ID    string
	Title string
}

func (p product) Name() string { return p.Title }

var titles = []string{"Äpfel", "apple", "Zucchini", "banana", "Éclair", "cherry", "item10", "item2"}

// workload inserts new products and reads recently issued ones, so the cache
// sees hits, misses and evictions. Only the last 4*MaxSize IDs are kept.
type workload struct {
	cache   *cache.SoftLRU[string, product]
	ids     idfactory.StringFactory
	reg     *stats.Registry
	byTitle collate.Comparator[product]
	log     *slog.Logger
	rnd     *rand.Rand
	recent  []string // ring of the last cap(recent) issued IDs
	next    int
}

func newWorkload(c *cache.SoftLRU[string, product], ids idfactory.StringFactory, reg *stats.Registry, byTitle collate.Comparator[product], log *slog.Logger) *workload {
	return &workload{
		cache:   c,
		ids:     ids,
		reg:     reg,
		byTitle: byTitle,
		log:     log,
		rnd:     rand.New(rand.NewPCG(1, 2)),
		recent:  make([]string, 0, 4*max(c.MaxSize(), 1)),
	}
}

// remember records id, overwriting the oldest one once the ring is full.
func (w *workload) remember(id string) {
	if len(w.recent) < cap(w.recent) {
		w.recent = append(w.recent, id)
		return
	}
	w.recent[w.next] = id
	w.next = (w.next + 1) % len(w.recent)
}

// step inserts one product and performs a few lookups.
func (w *workload) step(ctx context.Context) error {
	var err error
	w.reg.Timer("workload.step").Time(func() {
		var id string
		id, err = w.ids.NewStringID(ctx)
		if err != nil {
			return
		}
		w.cache.Put(id, product{ID: id, Title: titles[w.rnd.IntN(len(titles))]})
		w.remember(id)

		for range 3 {
			key := w.recent[w.rnd.IntN(len(w.recent))]
			if _, ok := w.cache.Get(key); ok {
				w.reg.KeyedCounter("workload.lookup").Inc("hit")
			} else {
				w.reg.KeyedCounter("workload.lookup").Inc("miss")
			}
		}
	})
	if err != nil {
		return err
	}
	w.reg.Counter("workload.steps").Inc()
	w.reg.Size("cache.size").Observe(w.cache.Size())
	return nil
}

// report logs the live products ordered by title.
func (w *workload) report(ctx context.Context) []product {
	var live []product
	for _, k := range w.cache.Keys() {
		if p, ok := w.cache.Peek(k); ok {
			live = append(live, p)
		}
	}
	slices.SortFunc(live, w.byTitle)

	first := ""
	if len(live) > 0 {
		first = live[0].Title
	}
	w.log.InfoContext(ctx, "workload.report",
		logger.Cache(w.cache.Name()),
		logger.Count(len(live)),
		"first_title", first,
		"stats", w.cache.Stats(),
	)
	return live
}

func (w *workload) run(ctx context.Context, tick, reportEvery time.Duration) error {
	steps := time.NewTicker(tick)
	defer steps.Stop()
	reports := time.NewTicker(reportEvery)
	defer reports.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-steps.C:
			if err := w.step(ctx); err != nil {
				w.log.ErrorContext(ctx, "workload.step.failed", logger.Error(err))
			}
		case <-reports.C:
			w.report(ctx)
		}
	}
}
