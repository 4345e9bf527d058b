package app_test

import (
	"context"

	"tracker/internal/adapter/memory"
)

// mockKV delegates to an in-memory store unless a function field overrides
// the call.
type mockKV struct {
	*memory.DB

	getStringFn     func(ctx context.Context, key string) (string, bool, error)
	setStringFn     func(ctx context.Context, key, value string) error
	getIntFn        func(ctx context.Context, key string) (int64, bool, error)
	setIntFn        func(ctx context.Context, key string, value int64) error
	getStringListFn func(ctx context.Context, key string) ([]string, bool, error)
	setStringListFn func(ctx context.Context, key string, value []string) error
	removeFn        func(ctx context.Context, key string) error
}

func newMockKV() *mockKV {
	return &mockKV{DB: memory.New()}
}

func (m *mockKV) GetString(ctx context.Context, key string) (string, bool, error) {
	if m.getStringFn != nil {
		return m.getStringFn(ctx, key)
	}
	return m.DB.GetString(ctx, key)
}

func (m *mockKV) SetString(ctx context.Context, key, value string) error {
	if m.setStringFn != nil {
		return m.setStringFn(ctx, key, value)
	}
	return m.DB.SetString(ctx, key, value)
}

func (m *mockKV) GetInt(ctx context.Context, key string) (int64, bool, error) {
	if m.getIntFn != nil {
		return m.getIntFn(ctx, key)
	}
	return m.DB.GetInt(ctx, key)
}

func (m *mockKV) SetInt(ctx context.Context, key string, value int64) error {
	if m.setIntFn != nil {
		return m.setIntFn(ctx, key, value)
	}
	return m.DB.SetInt(ctx, key, value)
}

func (m *mockKV) GetStringList(ctx context.Context, key string) ([]string, bool, error) {
	if m.getStringListFn != nil {
		return m.getStringListFn(ctx, key)
	}
	return m.DB.GetStringList(ctx, key)
}

func (m *mockKV) SetStringList(ctx context.Context, key string, value []string) error {
	if m.setStringListFn != nil {
		return m.setStringListFn(ctx, key, value)
	}
	return m.DB.SetStringList(ctx, key, value)
}

func (m *mockKV) Remove(ctx context.Context, key string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, key)
	}
	return m.DB.Remove(ctx, key)
}
