package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapScriptsCompile(t *testing.T) {
	if capAcquireScript == nil || capReleaseScript == nil {
		t.Fatalf("expected scripts to be initialized")
	}
}

func TestRedisCap_AcquireRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	rdb, err := OpenRedis(ctx, RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	c, err := NewRedisCap(rdb, "test:export", 2, time.Minute)
	require.NoError(t, err)

	ok, err := c.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "third acquire should hit the limit")

	require.NoError(t, c.Release(ctx))
	ok, err = c.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Release(ctx))
	require.NoError(t, c.Release(ctx))
	assert.False(t, mr.Exists("test:export"), "counter key should be removed once drained")
}

func TestNewRedisCap_RejectsInvalidArgs(t *testing.T) {
	_, err := NewRedisCap(nil, "k", 1, time.Second)
	assert.Error(t, err)
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

func TestLocalCap(t *testing.T) {
	ctx := context.Background()
	c, err := NewLocalCap(1)
	require.NoError(t, err)

	ok, _ := c.Acquire(ctx)
	assert.True(t, ok)
	ok, _ = c.Acquire(ctx)
	assert.False(t, ok)

	require.NoError(t, c.Release(ctx))
	ok, _ = c.Acquire(ctx)
	assert.True(t, ok)

	_, err = NewLocalCap(0)
	assert.Error(t, err)
}
