package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedis_UnavailableBypassesEverything(t *testing.T) {
	ctx := context.Background()
	r := NewRedisWithClient(nil, nil)

	var out []string
	hit, err := r.GetJSON(ctx, "k", &out)
	assert.NoError(t, err)
	assert.False(t, hit)

	assert.NoError(t, r.SetJSON(ctx, "k", []string{"a"}, time.Minute))
	assert.NoError(t, r.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, r.Delete(ctx, "k"))

	exists, err := r.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, exists)

	locked, err := r.SetIfNotExists(ctx, "lock", "1", 0)
	assert.NoError(t, err)
	assert.True(t, locked)

	assert.ErrorIs(t, r.Ping(ctx), ErrUnavailable)
	assert.NoError(t, r.Close())
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	hit, err := r.GetJSON(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
}
