// Package httpserver runs an http.Server with graceful shutdown.
//
// Run binds the listener, serves until the context is cancelled or SIGINT or
// SIGTERM arrives, then shuts down within the configured deadline. Listen
// errors are wrapped with ErrStart, shutdown errors with ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.LivenessHandler())
//	r.Get("/readyz", httpserver.ReadinessHandler(log, httpserver.Check{
//		Name: "redis",
//		Fn:   func(ctx context.Context) error { return client.Ping(ctx).Err() },
//	}))
//	r.Mount("/stats", registry.Handler(log))
//	if err := srv.Run(ctx, r); err != nil {
//		return err
//	}
package httpserver
