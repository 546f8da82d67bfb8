// Package redis holds the helpers for reaching a Redis server: a Config
// loadable from the environment, Connect with retries, and a Healthcheck
// probe. The returned *redis.Client comes from github.com/redis/go-redis/v9
// and backs the Redis ID factory in package idfactory.
//
//	var cfg redis.Config
//	config.MustLoad(loader, &cfg)
//
//	client, err := redis.Connect(ctx, cfg, redis.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Errors are sentinels joined with the driver error, so errors.Is works on
// ErrRedisNotReady and friends.
package redis
