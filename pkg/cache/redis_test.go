package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	_, err := store.Get(ctx, PostKey(7))
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, PostKey(7), []byte(`{"id":7}`), 600*time.Second))
	assert.Equal(t, 600*time.Second, mr.TTL("post_7"))

	got, err := store.Get(ctx, PostKey(7))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(got))

	mr.FastForward(601 * time.Second)
	_, err = store.Get(ctx, PostKey(7))
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, store.Delete(ctx, PostKey(7)))
	assert.NoError(t, store.Delete(ctx, PostKey(7)))
}
