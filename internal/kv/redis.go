// Package kv keeps short-lived counters in Redis.
package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect parses a redis:// or rediss:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// LoginGuard counts failed logins per email and locks the email out once
// Threshold failures happen inside TTL.
type LoginGuard struct {
	client    *redis.Client
	threshold int64
	ttl       time.Duration
}

func NewLoginGuard(client *redis.Client, threshold int, ttl time.Duration) *LoginGuard {
	if threshold <= 0 {
		threshold = 5
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LoginGuard{client: client, threshold: int64(threshold), ttl: ttl}
}

func failKey(email string) string { return "minimalapi:loginfail:" + email }
func lockKey(email string) string { return "minimalapi:loginlock:" + email }

func (g *LoginGuard) Locked(ctx context.Context, email string) (bool, error) {
	_, err := g.client.Get(ctx, lockKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (g *LoginGuard) Failed(ctx context.Context, email string) error {
	pipe := g.client.Pipeline()
	incr := pipe.Incr(ctx, failKey(email))
	pipe.Expire(ctx, failKey(email), g.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if incr.Val() >= g.threshold {
		return g.client.Set(ctx, lockKey(email), "1", g.ttl).Err()
	}
	return nil
}

// Succeeded clears the counters. Errors are ignored; the keys expire anyway.
func (g *LoginGuard) Succeeded(ctx context.Context, email string) {
	_ = g.client.Del(ctx, failKey(email), lockKey(email)).Err()
}
