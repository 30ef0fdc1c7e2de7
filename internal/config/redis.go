package config

// This file defines the Redis client constructor.  Redis backs the page
// cache and the form rate limiter; both degrade to pass-through when the
// client is nil.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from cfg and pings it with a short timeout.
// It returns nil when no address is configured or the server is unreachable.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if cfg.Address == "" {
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Address,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
