package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SequenceStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSequenceStore(client), mr
}

func TestSequenceStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), 42)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestSequenceStore_FirstWriterWins(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateIfAbsent(ctx, 7, []uint{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, first)

	second, err := store.CreateIfAbsent(ctx, 7, []uint{2, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, second)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, got)

	assert.True(t, mr.Exists("quiz:session:7:sequence"))
	assert.Zero(t, mr.TTL("quiz:session:7:sequence"))
}

func TestSequenceStore_SequenceOutlivesLongQuiz(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	frozen, err := store.CreateIfAbsent(ctx, 11, []uint{4, 6, 8, 3, 7, 5})
	require.NoError(t, err)

	mr.FastForward(8 * 24 * time.Hour)

	got, err := store.Get(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, frozen, got)

	again, err := store.CreateIfAbsent(ctx, 11, []uint{3, 6, 7, 8, 5, 4})
	require.NoError(t, err)
	assert.Equal(t, frozen, again)
}

func TestSequenceStore_ConcurrentCreateAgrees(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	candidates := [][]uint{{1, 2, 3}, {3, 2, 1}, {2, 1, 3}, {1, 3, 2}}
	results := make([][]uint, 20)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids, err := store.CreateIfAbsent(ctx, 9, candidates[i%len(candidates)])
			assert.NoError(t, err)
			results[i] = ids
		}(i)
	}
	wg.Wait()

	for _, ids := range results {
		assert.Equal(t, results[0], ids)
	}
}
