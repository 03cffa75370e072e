package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/config"
)

const redisPingTimeout = 3 * time.Second

// Redis wraps the go-redis client and owns the key namespace of this service.
type Redis struct {
	Client    *redis.Client
	keyPrefix string
}

// NewRedis builds the client and probes it once. An unreachable server is logged,
// not fatal: view state then lives in memory only until Redis comes back.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	r := &Redis{Client: client, keyPrefix: strings.Trim(cfg.KeyPrefix, ":")}

	fields := []zap.Field{
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.String("key_prefix", r.keyPrefix),
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		logger.Warn("unable to reach redis", append(fields, zap.Error(err))...)
	} else {
		logger.Info("connected to redis", fields...)
	}
	return r
}

// Key joins parts under the configured prefix with ':'.
func (r *Redis) Key(parts ...string) string {
	if r != nil && r.keyPrefix != "" {
		parts = append([]string{r.keyPrefix}, parts...)
	}
	return strings.Join(parts, ":")
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
