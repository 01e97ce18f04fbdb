package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		Client.Close()
		Client = nil
	})
	return mr
}

func TestCooldownBlocksRepeats(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	ok, err := Cooldown(ctx, "reset", "Ana@Example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Cooldown(ctx, "reset", "ana@example.com ", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, err = Cooldown(ctx, "reset", "ana@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReleaseLiftsCooldown(t *testing.T) {
	withMiniredis(t)
	ctx := context.Background()

	ok, _ := Cooldown(ctx, "reset", "bob@example.com", time.Minute)
	require.True(t, ok)
	Release(ctx, "reset", "bob@example.com")

	ok, err := Cooldown(ctx, "reset", "bob@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldownDisabledWithoutClient(t *testing.T) {
	Client = nil
	for i := 0; i < 3; i++ {
		ok, err := Cooldown(context.Background(), "reset", "x@example.com", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
