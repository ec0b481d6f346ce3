package database

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/fastx/backend/internal/config"
)

// InitRedis connects the redis client used for OTP records and the token
// blacklist. Both rely on redis key expiry, so a missing redis is fatal here
// rather than a degraded mode.
func InitRedis(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}

	log.Println("Redis connection established")
	return rdb
}
