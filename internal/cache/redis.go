// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"aperture/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// dialTimeout bounds the startup ping; past it the app runs cache-less.
const dialTimeout = 5 * time.Second

var client *redis.Client

// errorCounterHook feeds the Redis error counter. A cache miss (redis.Nil)
// is not an error.
type errorCounterHook struct{}

func (errorCounterHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounterHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errorCounterHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// clientOptions accepts either a redis:// URL or a bare host:port address.
func clientOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects the process-wide Redis client. Caching is best-effort:
// an invalid address or unreachable server leaves the client nil and every
// cache call degrades to its underlying fetch.
func InitRedis(addr string) {
	opts, err := clientOptions(addr)
	if err != nil {
		slog.Warn("redis disabled, invalid address",
			slog.String("addr", addr), slog.Any("error", err))
		client = nil
		return
	}

	candidate := redis.NewClient(opts)
	candidate.AddHook(errorCounterHook{})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := candidate.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, continuing without cache", slog.Any("error", err))
		client = nil
		return
	}

	slog.Info("redis connected", slog.String("addr", opts.Addr))
	client = candidate
}

// GetClient returns the process-wide Redis client, nil when caching is off.
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the client. Used by tests to install a miniredis-backed client.
func SetClient(c *redis.Client) {
	client = c
}
