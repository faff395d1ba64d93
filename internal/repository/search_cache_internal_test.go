package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mapsite/internal/entity"
)

func TestMemorySearchCache_Expiry(t *testing.T) {
	// Given: a cache with a controllable clock
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemorySearchCache(time.Minute).(*memSearchCache)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "rome", &entity.Place{DisplayName: "Rome"}))

	// When: the clock is still inside the ttl
	now = now.Add(59 * time.Second)
	_, err := cache.Get(ctx, "rome")

	// Then: the entry is served
	require.NoError(t, err)

	// When: the ttl has passed
	now = now.Add(time.Second)
	_, err = cache.Get(ctx, "rome")

	// Then: it is a miss and the entry is dropped
	require.ErrorIs(t, err, ErrCacheMiss)
	assert.Empty(t, cache.items)
}
