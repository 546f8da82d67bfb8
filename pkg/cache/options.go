package cache

import (
	"log/slog"

	"github.com/dmitrymomot/commons/pkg/logger"
)

// Recorder receives cache activity events. Implementations must be safe for
// concurrent use: Reclaim may be called from the runtime's cleanup goroutine.
type Recorder interface {
	Hit()
	Miss()
	Evict()
	Reclaim()
}

// NoopRecorder discards every event.
type NoopRecorder struct{}

func (NoopRecorder) Hit()     {}
func (NoopRecorder) Miss()    {}
func (NoopRecorder) Evict()   {}
func (NoopRecorder) Reclaim() {}

// Option configures a cache.
type Option func(*options)

type options struct {
	weak     bool
	name     string
	logger   *slog.Logger
	recorder Recorder
}

func defaultOptions() *options {
	return &options{
		name:     "default",
		logger:   logger.Noop(),
		recorder: NoopRecorder{},
	}
}

// WithWeakValues copies each value into a box referenced only weakly, so any
// garbage collection cycle may reclaim it. Use NewWeak for pointer values that
// should stay cached while the caller still references them.
func WithWeakValues() Option {
	return func(o *options) { o.weak = true }
}

// WithName sets the name attached to log records. Empty names are ignored.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for eviction, trim and purge events at debug level.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder forwards activity events to r. Nil recorders are ignored.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}
