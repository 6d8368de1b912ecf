package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_DefaultWhenUnset(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, sess.AwaitingTranslation)
	assert.Equal(t, DefaultTargetLanguage, sess.TargetLanguage)
}

func TestMemoryStore_SetGetClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Set(ctx, 42, Session{AwaitingTranslation: true, TargetLanguage: "en"})
	require.NoError(t, err)

	sess, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, sess.AwaitingTranslation)
	assert.Equal(t, "en", sess.TargetLanguage)

	err = store.Clear(ctx, 42)
	require.NoError(t, err)

	sess, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, Default(), sess)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = store.Set(ctx, id, Session{AwaitingTranslation: true, TargetLanguage: "tr"})
			_, _ = store.Get(ctx, id)
		}(int64(i % 5))
	}
	wg.Wait()

	sess, err := store.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, sess.AwaitingTranslation)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, time.Hour, testLogger())
	ctx := context.Background()

	err := store.Set(ctx, 123, Session{AwaitingTranslation: true, TargetLanguage: "ar"})
	require.NoError(t, err)

	sess, err := store.Get(ctx, 123)
	require.NoError(t, err)
	assert.True(t, sess.AwaitingTranslation)
	assert.Equal(t, "ar", sess.TargetLanguage)
}

func TestRedisStore_MissingKeyReadsAsDefault(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, time.Hour, testLogger())

	sess, err := store.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, Default(), sess)
}

func TestRedisStore_Clear(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	t.Cleanup(cleanup)

	store := NewRedisStore(client, time.Hour, testLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 7, Session{AwaitingTranslation: true, TargetLanguage: "ru"}))
	require.NoError(t, store.Clear(ctx, 7))

	sess, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, Default(), sess)
}

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}

	return client, cleanup
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
