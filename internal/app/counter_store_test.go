package app_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/app"
	"tracker/internal/domain"
)

func closeStore(t *testing.T, c interface{ Close(context.Context) error }) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Close(ctx))
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestCounterStore_NeverNegative(t *testing.T) {
	s := app.NewCounterStore(context.Background(), newMockKV())
	defer closeStore(t, s)

	assert.Equal(t, int64(0), s.Decrement())
	assert.Equal(t, int64(0), s.Decrement())
	assert.Equal(t, int64(0), s.Value())

	ops := []func() int64{s.Increment, s.Decrement, s.Decrement, s.Increment, s.Increment, s.Decrement, s.Decrement, s.Decrement}
	for _, op := range ops {
		assert.GreaterOrEqual(t, op(), int64(0))
	}
	assert.Equal(t, int64(0), s.Value())
}

func TestCounterStore_Reset(t *testing.T) {
	s := app.NewCounterStore(context.Background(), newMockKV())
	defer closeStore(t, s)

	for range 5 {
		s.Increment()
	}
	assert.Equal(t, int64(5), s.Value())
	assert.Equal(t, int64(0), s.Reset())
	assert.Equal(t, int64(0), s.Reset())
}

func TestCounterStore_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := newMockKV()

	s := app.NewCounterStore(ctx, kv)
	s.Increment()
	s.Increment()
	s.Increment()
	s.Decrement()
	closeStore(t, s)

	stored, ok, err := kv.DB.GetInt(ctx, domain.KeyCounterValue)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), stored)

	restarted := app.NewCounterStore(ctx, kv)
	defer closeStore(t, restarted)
	assert.Equal(t, int64(2), restarted.Value())
}

func TestCounterStore_LoadDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("negative stored value clamps to zero", func(t *testing.T) {
		kv := newMockKV()
		require.NoError(t, kv.DB.SetInt(ctx, domain.KeyCounterValue, -4))
		s := app.NewCounterStore(ctx, kv)
		defer closeStore(t, s)
		assert.Equal(t, int64(0), s.Value())
	})

	t.Run("load error starts at zero", func(t *testing.T) {
		kv := newMockKV()
		kv.getIntFn = func(context.Context, string) (int64, bool, error) { return 9, true, errors.New("io") }
		s := app.NewCounterStore(ctx, kv)
		defer closeStore(t, s)
		assert.Equal(t, int64(0), s.Value())
	})
}

func TestCounterStore_WriteFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	var attempts atomic.Int32
	kv := newMockKV()
	kv.setIntFn = func(context.Context, string, int64) error {
		attempts.Add(1)
		return errors.New("disk full")
	}

	s := app.NewCounterStore(ctx, kv)
	assert.Equal(t, int64(1), s.Increment())
	assert.Equal(t, int64(2), s.Increment())
	require.NoError(t, s.Flush(ctx))
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, int64(2), s.Value())
	closeStore(t, s)
}

func TestCounterStore_WritesAreOrdered(t *testing.T) {
	ctx := context.Background()
	var written []int64
	kv := newMockKV()
	kv.setIntFn = func(_ context.Context, _ string, v int64) error {
		written = append(written, v)
		return nil
	}

	s := app.NewCounterStore(ctx, kv)
	s.Increment()
	s.Increment()
	s.Decrement()
	s.Reset()
	closeStore(t, s)

	assert.Equal(t, []int64{1, 2, 1, 0}, written)
}

func TestCounterStore_Subscribe(t *testing.T) {
	s := app.NewCounterStore(context.Background(), newMockKV())
	s.Increment()

	ch, cancel := s.Subscribe()
	assert.Equal(t, int64(1), recv(t, ch), "current value is delivered first")

	s.Increment()
	s.Increment()
	s.Decrement()
	assert.Equal(t, int64(2), recv(t, ch))
	assert.Equal(t, int64(3), recv(t, ch))
	assert.Equal(t, int64(2), recv(t, ch))

	other, cancelOther := s.Subscribe()
	defer cancelOther()
	assert.Equal(t, int64(2), recv(t, other))

	cancel()
	s.Reset()
	assert.Equal(t, int64(0), recv(t, other))

	for range ch {
		// drain until the cancelled subscription closes
	}

	closeStore(t, s)
	_, ok := <-other
	assert.False(t, ok, "close detaches remaining subscribers")
}

func TestCounterStore_SlowSubscriberSeesEveryValue(t *testing.T) {
	s := app.NewCounterStore(context.Background(), newMockKV())
	defer closeStore(t, s)

	ch, cancel := s.Subscribe()
	defer cancel()

	for range 100 {
		s.Increment()
	}
	for want := int64(0); want <= 100; want++ {
		assert.Equal(t, want, recv(t, ch))
	}
}
