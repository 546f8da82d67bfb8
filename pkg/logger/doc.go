// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers so the other packages log with consistent keys.
//
// New picks a text or JSON handler, attaches static attributes and, when
// ContextExtractor callbacks are registered, wraps the handler so every
// *Context call adds attributes read from its context.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(logger.EnvDevelopment, "cachedemo"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.Info("cache trimmed", logger.Cache("sessions"), logger.Count(12))
//
// Packages that accept a logger default to Noop, which discards everything.
//
// Helpers that take an error return an empty slog.Attr for nil, which slog
// drops, so
//
//	log.Info("flushed", logger.Error(err))
//
// needs no nil check.
package logger
