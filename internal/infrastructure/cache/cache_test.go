package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/infrastructure/logging"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		c := NewMemoryCache()
		_, err := c.Get(ctx, "nada")
		assert.ErrorIs(t, err, ports.ErrCacheMiss)
	})

	t.Run("set e get", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("expira pelo ttl", func(t *testing.T) {
		c := NewMemoryCache()
		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
		now = now.Add(59 * time.Second)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)

		now = now.Add(time.Second)
		_, err = c.Get(ctx, "k")
		assert.ErrorIs(t, err, ports.ErrCacheMiss)
	})

	t.Run("ttl zero não expira", func(t *testing.T) {
		c := NewMemoryCache()
		now := time.Now()
		c.now = func() time.Time { return now }
		require.NoError(t, c.Set(ctx, "k", "v", 0))
		now = now.Add(24 * 365 * time.Hour)
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})
}

func TestNew(t *testing.T) {
	t.Run("sem URL usa memória", func(t *testing.T) {
		c := New("", "revistete:", logging.NewNopLogger())
		_, ok := c.(*MemoryCache)
		assert.True(t, ok)
	})

	t.Run("URL inválida usa memória", func(t *testing.T) {
		c := New("not-a-url://", "revistete:", logging.NewNopLogger())
		_, ok := c.(*MemoryCache)
		assert.True(t, ok)
	})
}
