package idfactory

import (
	"context"
	"strconv"
)

// DefaultStartID is the first ID handed out by factories created without an
// explicit start value.
const DefaultStartID = 10000

// IntFactory hands out unique integer IDs.
type IntFactory interface {
	NewIntID(ctx context.Context) (int64, error)
}

// StringFactory hands out unique string IDs.
type StringFactory interface {
	NewStringID(ctx context.Context) (string, error)
}

// Config selects how the demo binary and other callers build factories.
type Config struct {
	Prefix   string `env:"ID_PREFIX" envDefault:""`
	StartID  int64  `env:"ID_START" envDefault:"10000"`
	RedisKey string `env:"ID_REDIS_KEY" envDefault:"commons:id"`
}

// Prefixed turns an IntFactory into a StringFactory producing prefix+id.
type Prefixed struct {
	prefix string
	ints   IntFactory
}

// NewPrefixed wraps ints. An empty prefix yields the bare decimal ID.
func NewPrefixed(prefix string, ints IntFactory) *Prefixed {
	return &Prefixed{prefix: prefix, ints: ints}
}

func (p *Prefixed) NewStringID(ctx context.Context) (string, error) {
	id, err := p.ints.NewIntID(ctx)
	if err != nil {
		return "", err
	}
	return p.prefix + strconv.FormatInt(id, 10), nil
}
