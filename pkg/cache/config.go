package cache

import "time"

// Config describes a cache loadable from environment variables.
type Config struct {
	Name       string `env:"CACHE_NAME" envDefault:"default"`
	MaxSize    int    `env:"CACHE_MAX_SIZE" envDefault:"1000"`
	WeakValues bool   `env:"CACHE_WEAK_VALUES" envDefault:"false"`
}

// GuardConfig describes the memory-pressure guard.
type GuardConfig struct {
	SoftLimit    uint64        `env:"CACHE_GUARD_SOFT_LIMIT" envDefault:"268435456"` // heap bytes above which caches are trimmed
	Interval     time.Duration `env:"CACHE_GUARD_INTERVAL" envDefault:"10s"`
	TrimFraction float64       `env:"CACHE_GUARD_TRIM_FRACTION" envDefault:"0.25"` // share of each cache trimmed per check
}
