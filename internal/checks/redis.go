package checks

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/aryankumar/probectl/internal/probe"
)

// RedisPinger captures the subset of the Redis client used for readiness checks
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// redisDialTimeout applies when the attempt context has no deadline
const redisDialTimeout = 5 * time.Second

// Redis connects to addr and sends PING
func Redis(addr, password string, db int) probe.Operation {
	return func(ctx context.Context) error {
		if addr == "" {
			return errors.New("redis probe: address is required")
		}

		client := redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    password,
			DB:          db,
			DialTimeout: redisDialTimeout,
			MaxRetries:  -1,
		})
		defer client.Close()

		return RedisPing(client)(ctx)
	}
}

// RedisPing checks an existing Redis client
func RedisPing(client RedisPinger) probe.Operation {
	return func(ctx context.Context) error {
		if client == nil {
			return nilComponentError("redis", "client")
		}
		if err := client.Ping(contextOrBackground(ctx)).Err(); err != nil {
			return probeFailed("redis", err)
		}
		return nil
	}
}
