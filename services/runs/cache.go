package runs

import (
	redis_models "Comodin/models/redis"
	"Comodin/services/shop"
	"context"
	"fmt"
	"sync"
)

// Cache holds the hot copy of runs and their shops. *redis.RedisClient
// satisfies it; a miss is (nil, nil).
type Cache interface {
	SaveRunState(ctx context.Context, state *redis_models.RunState) error
	GetRunState(ctx context.Context, runID string) (*redis_models.RunState, error)
	SaveShop(ctx context.Context, s *shop.Shop) error
	GetShop(ctx context.Context, runID string, round int) (*shop.Shop, error)
	SetPackContents(ctx context.Context, runID string, round int, itemID string, contents shop.PackContents) error
	GetPackContents(ctx context.Context, runID string, round int, itemID string) (*shop.PackContents, error)
}

// MemoryCache is a Cache without expiry
type MemoryCache struct {
	mu     sync.Mutex
	states map[string]redis_models.RunState
	shops  map[string]shop.Shop
	packs  map[string]shop.PackContents
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		states: make(map[string]redis_models.RunState),
		shops:  make(map[string]shop.Shop),
		packs:  make(map[string]shop.PackContents),
	}
}

func (c *MemoryCache) SaveRunState(_ context.Context, state *redis_models.RunState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[state.RunID] = *state
	return nil
}

func (c *MemoryCache) GetRunState(_ context.Context, runID string) (*redis_models.RunState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.states[runID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (c *MemoryCache) SaveShop(_ context.Context, s *shop.Shop) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	cp.Items = append([]shop.Item(nil), s.Items...)
	cp.Packs = append([]shop.Item(nil), s.Packs...)
	cp.Vouchers = append([]shop.Item(nil), s.Vouchers...)
	c.shops[fmt.Sprintf("%s:%d", s.RunID, s.Round)] = cp
	return nil
}

func (c *MemoryCache) GetShop(_ context.Context, runID string, round int) (*shop.Shop, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.shops[fmt.Sprintf("%s:%d", runID, round)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *MemoryCache) SetPackContents(_ context.Context, runID string, round int, itemID string, contents shop.PackContents) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packs[fmt.Sprintf("%s:%d:%s", runID, round, itemID)] = contents
	return nil
}

func (c *MemoryCache) GetPackContents(_ context.Context, runID string, round int, itemID string) (*shop.PackContents, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	contents, ok := c.packs[fmt.Sprintf("%s:%d:%s", runID, round, itemID)]
	if !ok {
		return nil, nil
	}
	return &contents, nil
}
