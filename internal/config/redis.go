package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using REDIS_ADDR / REDIS_PASSWORD /
// REDIS_DB.  Redis is optional infrastructure: on a failed ping the client
// returns nil and the caller runs without caching and rate limiting.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "localhost:6379")

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getenv("REDIS_PASSWORD", ""),
		DB:       getenvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] unavailable at %s: %v (cache and rate limit disabled)", addr, err)
		return nil
	}

	log.Printf("[REDIS] connected to %s", addr)
	return rdb
}
