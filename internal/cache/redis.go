package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const DefaultTTL = 30 * time.Second

// Redis is a response cache for the talks API, backed by a Redis store.
// Failures are logged and reported as misses, so the cache never breaks a fetch.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedis creates a new cache. It will receive a context, the Redis connection
// string and the time to live of the cached responses.
func NewRedis(ctx context.Context, connStr string, ttl time.Duration, logger *slog.Logger) (*Redis, error) {
	options, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, err
	}

	cli := redis.NewClient(options)

	pong, err := cli.Ping(ctx).Result()
	if err != nil {
		cli.Close()
		return nil, err
	}

	if pong != "PONG" {
		cli.Close()
		return nil, errors.New("unexpected ping response: " + pong)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Redis{client: cli, ttl: ttl, logger: logger}, nil
}

// Get returns the cached body for the given request path.
func (r *Redis) Get(ctx context.Context, path string) ([]byte, bool) {
	body, err := r.client.Get(ctx, toKey(path)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("error reading cached response", "path", path, "error", err)
		}
		return nil, false
	}
	return body, true
}

// Set stores the body for the given request path, expiring after the cache TTL.
func (r *Redis) Set(ctx context.Context, path string, body []byte) {
	if err := r.client.Set(ctx, toKey(path), body, r.ttl).Err(); err != nil {
		r.logger.Warn("error caching response", "path", path, "error", err)
	}
}

// Close releases the connections to the store.
func (r *Redis) Close() error {
	return r.client.Close()
}

// toKey is a helper function that returns the path prefixed with "talks-explorer/".
func toKey(path string) string {
	return "talks-explorer" + path
}
