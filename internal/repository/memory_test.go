package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2tx/kinchat/internal/model"
)

func TestMemoryExchangeRepository_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryExchangeRepository(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(ctx, model.Exchange{ID: fmt.Sprint(i)}))
	}

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"4", "3", "2"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
}

func TestMemoryExchangeRepository_Empty(t *testing.T) {
	repo := NewMemoryExchangeRepository(0)

	got, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, repo.ring, DefaultMemoryCapacity)
}

func TestMemoryExchangeRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryExchangeRepository(64)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Record(ctx, model.Exchange{ID: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	got, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 32)
}
