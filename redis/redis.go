package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meinhoongagan/marketplace/config"
	"github.com/meinhoongagan/marketplace/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client is nil when REDIS_ADDR is empty; Cooldown then always allows.
var Client *redis.Client

// InitRedis connects and pings with a short deadline.
func InitRedis(cfg config.RedisConfig) error {
	if cfg.Addr == "" {
		logger.L().Info("redis disabled, forgot-password cooldown off")
		return nil
	}

	c := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	Client = c
	logger.L().Info("connected to redis", zap.String("addr", cfg.Addr))
	return nil
}

func cooldownKey(scope, subject string) string {
	return "cooldown:" + scope + ":" + strings.ToLower(strings.TrimSpace(subject))
}

// Cooldown reports whether an action for subject may run now, and if so
// blocks repeats for window. Redis failures fail open.
func Cooldown(ctx context.Context, scope, subject string, window time.Duration) (bool, error) {
	if Client == nil || window <= 0 {
		return true, nil
	}
	ok, err := Client.SetNX(ctx, cooldownKey(scope, subject), time.Now().Unix(), window).Result()
	if err != nil {
		logger.L().Warn("cooldown check failed", zap.String("scope", scope), zap.Error(err))
		return true, err
	}
	return ok, nil
}

// Release lifts the cooldown early, used when the guarded action failed.
func Release(ctx context.Context, scope, subject string) {
	if Client == nil {
		return
	}
	if err := Client.Del(ctx, cooldownKey(scope, subject)).Err(); err != nil {
		logger.L().Warn("cooldown release failed", zap.String("scope", scope), zap.Error(err))
	}
}
