package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"fin-analyst-be/pkg/store"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestRedisSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(newClient(t), time.Minute)

	s, err := repo.Create(ctx, "user-1")
	require.NoError(t, err)

	s.LastTicker = "NVDA"
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "NVDA", got.LastTicker)
	assert.Equal(t, "user-1", got.UserID)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
