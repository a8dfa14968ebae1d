package redis

import (
	redis_models "Comodin/models/redis"
	"Comodin/services/shop"
	redis_utils "Comodin/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses a redis:// URL, or dials a plain host:port
func NewRedisClient(addr string, db int, ttl time.Duration) (*RedisClient, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	var client *redis.Client
	if addr == "" || addr == "localhost:6379" {
		client = redis.NewClient(&redis.Options{
			Addr: "localhost:6379",
			DB:   db,
		})
	} else {
		log.Println("[REDIS] Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client = redis.NewClient(opt)
	}
	return &RedisClient{client: client, ttl: ttl}, nil
}

func (rc *RedisClient) TTL() time.Duration {
	return rc.ttl
}

func (rc *RedisClient) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", key, err)
	}
	return rc.client.Set(ctx, key, data, rc.ttl).Err()
}

// getJSON reports false without error when the key is missing
func (rc *RedisClient) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error getting %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("error unmarshaling %s: %w", key, err)
	}
	return true, nil
}

// SaveRunState stores the hot copy of a run
// Key format: "run:{id}:state"
func (rc *RedisClient) SaveRunState(ctx context.Context, state *redis_models.RunState) error {
	return rc.setJSON(ctx, redis_utils.FormatRunStateKey(state.RunID), state)
}

// GetRunState returns nil, nil when the run is not cached
func (rc *RedisClient) GetRunState(ctx context.Context, runID string) (*redis_models.RunState, error) {
	var state redis_models.RunState
	ok, err := rc.getJSON(ctx, redis_utils.FormatRunStateKey(runID), &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

// SaveShop caches the shop of a round so reloading does not reroll it
// Key format: "run:{id}:round:{round}:shop"
func (rc *RedisClient) SaveShop(ctx context.Context, s *shop.Shop) error {
	return rc.setJSON(ctx, redis_utils.FormatShopKey(s.RunID, s.Round), s)
}

func (rc *RedisClient) GetShop(ctx context.Context, runID string, round int) (*shop.Shop, error) {
	var s shop.Shop
	ok, err := rc.getJSON(ctx, redis_utils.FormatShopKey(runID, round), &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (rc *RedisClient) SetPackContents(ctx context.Context, runID string, round int, itemID string, contents shop.PackContents) error {
	return rc.setJSON(ctx, redis_utils.FormatPackKey(runID, round, itemID), contents)
}

func (rc *RedisClient) GetPackContents(ctx context.Context, runID string, round int, itemID string) (*shop.PackContents, error) {
	var contents shop.PackContents
	ok, err := rc.getJSON(ctx, redis_utils.FormatPackKey(runID, round, itemID), &contents)
	if err != nil || !ok {
		return nil, err
	}
	return &contents, nil
}

// DeleteRun removes every cached key of a run
func (rc *RedisClient) DeleteRun(ctx context.Context, runID string) error {
	var keys []string
	iter := rc.client.Scan(ctx, 0, redis_utils.FormatRunPattern(runID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning keys of run %s: %w", runID, err)
	}
	return rc.CleanupKeys(ctx, keys)
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %w", key, err)
		}
	}
	return nil
}
