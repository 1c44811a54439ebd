package utils

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/atalvarez9/events-directory-backend/config"
)

var RedisClient *redis.Client

// InitRedis connects the shared redis client. It backs the profile cache and
// the notification dedup guard.
func InitRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := RedisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
