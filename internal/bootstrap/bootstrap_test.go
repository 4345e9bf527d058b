package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/config"
)

func TestNew_SQLiteRestart(t *testing.T) {
	cfg := config.Default()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "tracker.db")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	a.Counter.Increment()
	a.Counter.Increment()
	a.Theme.SetDark(true)
	require.True(t, a.Activities.Add("Buy milk"))
	require.NoError(t, a.Close(ctx))

	b, err := New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.Close(ctx)) }()

	assert.Equal(t, int64(2), b.Counter.Value())
	assert.True(t, b.Theme.IsDark())
	items := b.Activities.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Text)
	assert.False(t, items[0].Done)
}

func TestNew_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = config.DriverMemory

	a, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Counter.Value())
	assert.Zero(t, a.Activities.Len())
	assert.NoError(t, a.Close(context.Background()))
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.StoreDriver = "bolt"

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown store driver")
}
