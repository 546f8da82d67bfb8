package idfactory

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Incrementer is the part of a go-redis client the Redis factory needs.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type Incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	IncrBy(ctx context.Context, key string, value int64) *redis.IntCmd
}

// Redis hands out IDs from an INCR counter, so every process sharing the
// server and key draws from one sequence.
type Redis struct {
	client Incrementer
	key    string
	offset int64
}

// NewRedis returns a factory counting on key. The first ID is start when the
// key does not exist yet.
func NewRedis(client Incrementer, key string, start int64) (*Redis, error) {
	if key == "" {
		return nil, ErrEmptyRedisKey
	}
	if start < 0 {
		return nil, ErrNegativeStartID
	}
	// INCR on a missing key returns 1.
	return &Redis{client: client, key: key, offset: start - 1}, nil
}

func (r *Redis) NewIntID(ctx context.Context) (int64, error) {
	n, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return 0, errors.Join(ErrGenerateID, err)
	}
	return n + r.offset, nil
}

// Reserve claims n consecutive IDs with one round trip and returns the first.
func (r *Redis) Reserve(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, errors.Join(ErrGenerateID, errors.New("reserve count must be positive"))
	}
	last, err := r.client.IncrBy(ctx, r.key, n).Result()
	if err != nil {
		return 0, errors.Join(ErrGenerateID, err)
	}
	return last - n + 1 + r.offset, nil
}
