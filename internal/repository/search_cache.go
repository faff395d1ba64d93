package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mapsite/internal/pkg"
)

const searchKeyPrefix = "search:"

var ErrCacheMiss = errors.New("search result not cached")

// SearchCache keeps geocoder answers so repeated queries do not hit the search endpoint.
type SearchCache interface {
	Get(ctx context.Context, query string) (*entity.Place, error)
	Set(ctx context.Context, query string, place *entity.Place) error
}

type cachedPlace struct {
	place     entity.Place
	expiresAt time.Time
}

type memSearchCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]cachedPlace
}

func NewMemorySearchCache(ttl time.Duration) SearchCache {
	return &memSearchCache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cachedPlace),
	}
}

func (that *memSearchCache) Get(_ context.Context, query string) (*entity.Place, error) {
	key := pkg.NormalizeQuery(query)

	that.mu.Lock()
	defer that.mu.Unlock()

	item, ok := that.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}

	if that.ttl > 0 && !that.now().Before(item.expiresAt) {
		delete(that.items, key)
		return nil, ErrCacheMiss
	}

	place := item.place
	return &place, nil
}

func (that *memSearchCache) Set(_ context.Context, query string, place *entity.Place) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.items[pkg.NormalizeQuery(query)] = cachedPlace{
		place:     *place,
		expiresAt: that.now().Add(that.ttl),
	}

	return nil
}

type redisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration) SearchCache {
	return &redisSearchCache{
		client: client,
		ttl:    ttl,
	}
}

func (that *redisSearchCache) Get(ctx context.Context, query string) (*entity.Place, error) {
	response, err := that.client.Get(ctx, searchKeyPrefix+pkg.NormalizeQuery(query)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get cached search: %w", err)
	}

	var place entity.Place
	if err = json.Unmarshal([]byte(response), &place); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place: %w", err)
	}

	return &place, nil
}

func (that *redisSearchCache) Set(ctx context.Context, query string, place *entity.Place) error {
	placeJSON, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("could not marshal place: %w", err)
	}

	err = that.client.Set(ctx, searchKeyPrefix+pkg.NormalizeQuery(query), placeJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set cached search: %w", err)
	}

	return nil
}
