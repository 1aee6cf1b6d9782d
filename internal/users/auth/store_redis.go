// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mercado/internal/platform/constants"
)

// RedisLoginAttemptRepository implements [LoginAttemptRepository] with an
// expiring counter per email.
type RedisLoginAttemptRepository struct {
	client *redis.Client
	window time.Duration
}

// NewLoginAttemptRepository creates a Redis-backed counter with the given window.
func NewLoginAttemptRepository(client *redis.Client, window time.Duration) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client, window: window}
}

func loginAttemptKey(email string) string {
	return constants.RedisPrefixLoginAttempts + strings.ToLower(email)
}

// Failures reads the counter and its remaining TTL in one round trip.
func (repository *RedisLoginAttemptRepository) Failures(ctx context.Context, email string) (int, time.Duration, error) {
	key := loginAttemptKey(email)

	var (
		countCmd *redis.StringCmd
		ttlCmd   *redis.DurationCmd
	)
	_, err := repository.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		countCmd = pipe.Get(ctx, key)
		ttlCmd = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	count, err := countCmd.Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("redis_login_attempts_parse_failed: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = repository.window
	}
	return count, ttl, nil
}

// RecordFailure increments the counter. The window starts on the first failure
// and is not extended by later ones.
func (repository *RedisLoginAttemptRepository) RecordFailure(ctx context.Context, email string) (int, error) {
	key := loginAttemptKey(email)

	var incrCmd *redis.IntCmd
	_, err := repository.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incrCmd = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, repository.window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}
	return int(incrCmd.Val()), nil
}

// Reset deletes the counter.
func (repository *RedisLoginAttemptRepository) Reset(ctx context.Context, email string) error {
	if err := repository.client.Del(ctx, loginAttemptKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_reset_failed: %w", err)
	}
	return nil
}

// NoopLoginAttempts disables throttling.
type NoopLoginAttempts struct{}

func (NoopLoginAttempts) Failures(context.Context, string) (int, time.Duration, error) {
	return 0, 0, nil
}

func (NoopLoginAttempts) RecordFailure(context.Context, string) (int, error) { return 0, nil }

func (NoopLoginAttempts) Reset(context.Context, string) error { return nil }
