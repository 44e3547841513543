package memory

import (
	"context"
	"testing"
	"time"

	"fin-analyst-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	s, err := repo.Create(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Empty(t, got.LastTicker)

	got.LastTicker = "MSFT"
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", again.LastTicker)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestUnsavedChangesAreNotVisible(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	s, err := repo.Create(ctx, "")
	require.NoError(t, err)

	a, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	a.LastTicker = "TSLA"

	b, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, b.LastTicker)
}

func TestSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	a, _ := repo.Create(ctx, "")
	b, _ := repo.Create(ctx, "")
	a.LastTicker = "AAPL"
	require.NoError(t, repo.Save(ctx, a))

	got, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LastTicker)
}
