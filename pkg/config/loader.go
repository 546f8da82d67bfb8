package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Loader parses environment variables into config structs and remembers the
// result per type. Each Loader owns its cache; create one at startup and pass
// it to whatever needs configuration.
type Loader struct {
	files  []string
	prefix string
	vars   map[string]string

	envOnce sync.Once
	envErr  error

	mu     sync.Mutex
	values map[reflect.Type]any
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithEnvFiles loads the given .env files before the first parse instead of
// the optional ./.env. Unlike ./.env, these files must exist.
// Variables already present in the process environment win.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.files = append(l.files, paths...)
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "APP_" turns
// CACHE_MAX_SIZE into APP_CACHE_MAX_SIZE.
func WithPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.prefix = prefix }
}

// WithEnvironment parses from vars instead of the process environment.
// No .env file is loaded in that case.
func WithEnvironment(vars map[string]string) LoaderOption {
	return func(l *Loader) { l.vars = vars }
}

// NewLoader creates a Loader with an empty cache.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{values: make(map[reflect.Type]any)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Reset forgets every cached config so the next Load parses again.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = make(map[reflect.Type]any)
}

func (l *Loader) loadEnvFiles() error {
	l.envOnce.Do(func() {
		switch {
		case l.vars != nil:
		case len(l.files) == 0:
			// ./.env is optional
			_ = godotenv.Load()
		default:
			if err := godotenv.Load(l.files...); err != nil {
				l.envErr = errors.Join(ErrLoadingEnvFile, err)
			}
		}
	})
	return l.envErr
}

// Load fills v from the environment. The first successful Load of a type is
// cached on l and later calls for the same type copy the cached value.
//
//	type CacheConfig struct {
//		MaxSize int `env:"CACHE_MAX_SIZE" envDefault:"1000"`
//	}
//
//	var cfg CacheConfig
//	if err := config.Load(loader, &cfg); err != nil {
//		return err
//	}
func Load[T any](l *Loader, v *T) error {
	if l == nil {
		return ErrNilLoader
	}
	if v == nil {
		return ErrNilPointer
	}
	if err := l.loadEnvFiles(); err != nil {
		return err
	}

	typ := reflect.TypeFor[T]()

	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.values[typ]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.ParseWithOptions(&parsed, env.Options{
		Prefix:      l.prefix,
		Environment: l.vars,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	l.values[typ] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if loading fails. Use it for
// configuration the program cannot start without.
func MustLoad[T any](l *Loader, v *T) {
	if err := Load(l, v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
