package redis

import (
	"context"
	"fmt"
	"log"
	"time"
)

// InitRedis connects and checks the connection
func InitRedis(addr string, db int, ttl time.Duration) (*RedisClient, error) {
	rc, err := NewRedisClient(addr, db, ttl)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("[REDIS] Successfully connected to Redis")
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}
