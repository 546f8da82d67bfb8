// Command cachedemo runs a synthetic workload against a SoftLRU cache and
// serves its statistics over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/commons/pkg/cache"
	"github.com/dmitrymomot/commons/pkg/collate"
	"github.com/dmitrymomot/commons/pkg/config"
	"github.com/dmitrymomot/commons/pkg/httpserver"
	"github.com/dmitrymomot/commons/pkg/idfactory"
	"github.com/dmitrymomot/commons/pkg/logger"
	"github.com/dmitrymomot/commons/pkg/redis"
	"github.com/dmitrymomot/commons/pkg/requestid"
	"github.com/dmitrymomot/commons/pkg/stats"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "cachedemo:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ./.env is picked up when present.
	loader := config.NewLoader()

	var (
		app      appConfig
		cacheCfg cache.Config
		guardCfg cache.GuardConfig
		idCfg    idfactory.Config
		httpCfg  httpserver.Config
	)
	for _, err := range []error{
		config.Load(loader, &app),
		config.Load(loader, &cacheCfg),
		config.Load(loader, &guardCfg),
		config.Load(loader, &idCfg),
		config.Load(loader, &httpCfg),
	} {
		if err != nil {
			return err
		}
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	reg := stats.NewRegistry()
	products, err := cache.NewFromConfig(cacheCfg,
		func(size int, key string, p product) {
			log.Debug("product.evicted", logger.Key(key), logger.Size(size), "title", p.Title)
		},
		cache.WithLogger(log),
		cache.WithRecorder(reg.Cache(cacheCfg.Name)),
	)
	if err != nil {
		return err
	}

	guard, err := cache.NewGuard(guardCfg, cache.WithGuardLogger(log))
	if err != nil {
		return err
	}
	guard.Register(products.Name(), products)

	ids, checks, closeIDs, err := newIDFactory(ctx, loader, app.IDBackend, idCfg, log)
	if err != nil {
		return err
	}
	defer closeIDs()

	tag, err := collate.ParseLocale(app.Locale)
	if err != nil {
		return err
	}
	w := newWorkload(products, ids, reg, collate.ByName[product](tag, collate.IgnoreCase(), collate.Numeric()), log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware(
		requestid.WithGenerator(idfactory.NewUUID(idfactory.WithUUIDv7())),
		requestid.WithLogger(log),
	))
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, checks...))
	r.Mount("/stats", reg.Handler(log))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithAddr(app.StatsAddr), httpserver.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return guard.Run(ctx) })
	g.Go(func() error { return w.run(ctx, app.Tick, app.Report) })
	g.Go(func() error { return srv.Run(ctx, r) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newIDFactory builds the ID source selected by backend along with the
// readiness checks it needs and a function releasing its resources.
func newIDFactory(ctx context.Context, loader *config.Loader, backend string, cfg idfactory.Config, log *slog.Logger) (idfactory.StringFactory, []httpserver.Check, func(), error) {
	noop := func() {}
	switch backend {
	case "memory":
		m, err := idfactory.NewMemory(cfg.StartID)
		if err != nil {
			return nil, nil, noop, err
		}
		return idfactory.NewPrefixed(cfg.Prefix, m), nil, noop, nil
	case "uuid":
		return idfactory.NewUUID(idfactory.WithUUIDv7()), nil, noop, nil
	case "redis":
		var rc redis.Config
		if err := config.Load(loader, &rc); err != nil {
			return nil, nil, noop, err
		}
		client, err := redis.Connect(ctx, rc, redis.WithLogger(log))
		if err != nil {
			return nil, nil, noop, err
		}
		f, err := idfactory.NewRedis(client, cfg.RedisKey, cfg.StartID)
		if err != nil {
			_ = client.Close()
			return nil, nil, noop, err
		}
		checks := []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}}
		return idfactory.NewPrefixed(cfg.Prefix, f), checks, func() { _ = client.Close() }, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown ID_BACKEND %q", backend)
	}
}
