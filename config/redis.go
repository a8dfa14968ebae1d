package config

import (
	"Comodin/services/redis"
	"log"
)

// Connect to Redis
func Connect_redis(s Settings) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(s.RedisURL, 0, s.StateTTL)
	if err != nil {
		log.Printf("[REDIS] Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("[REDIS] Redis connection established")
	return redisClient, nil
}
