package persistence

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrio-webgold/webgold/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(ctx, slog.Default(), &config.RedisConfig{Addr: mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		assert.NoError(t, client.Set(ctx, "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		client, err := NewRedisClient(ctx, slog.Default(), &config.RedisConfig{Addr: addr})
		assert.Nil(t, client)
		assert.ErrorContains(t, err, "failed to ping Redis")
	})
}
