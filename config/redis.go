package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient caches catalog pages when REDIS_ADDR is set; nil otherwise.
var RedisClient *redis.Client

// InitRedis connects to REDIS_ADDR and pings it. An unreachable server leaves
// RedisClient nil so callers fall back to the in-memory cache.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		RedisClient = nil
		slog.Info("redis not configured, page cache is in-memory")
		return
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(RedisCtx(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis configured but not reachable, page cache is in-memory", "addr", addr, "err", err)
		_ = client.Close()
		RedisClient = nil
		return
	}
	slog.Info("redis connection successful", "addr", addr)
	RedisClient = client
}

func RedisCtx() context.Context {
	return context.Background()
}
