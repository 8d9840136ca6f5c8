// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps fixed-window counters in Redis. Each window gets its
// own key which expires with the window.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter connects to url and verifies the connection
func NewRedisLimiter(ctx context.Context, url string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisLimiter{client: client, now: time.Now}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, policy Policy, key string) (Result, error) {
	if key == "" {
		return Result{}, fmt.Errorf("rate limit key is required")
	}

	now := l.now().UTC()
	start := windowStart(now, policy.Window)
	windowKey := key + ":" + strconv.FormatInt(start.Unix(), 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.ExpireAt(ctx, windowKey, start.Add(policy.Window))
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("increment rate limit window: %w", err)
	}

	return newResult(policy, int(incr.Val()), start, now), nil
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
