// Package bootstrap opens the configured key-value backend and builds the
// stores on top of it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tracker/internal/adapter/memory"
	"tracker/internal/adapter/postgres"
	"tracker/internal/adapter/sqlite"
	"tracker/internal/app"
	"tracker/internal/config"
	"tracker/internal/domain"
)

// App holds the opened backend and the stores built on it.
type App struct {
	KV         domain.KeyValueStore
	Session    *app.SessionStore
	Counter    *app.CounterStore
	Activities *app.ActivityStore
	Theme      *app.ThemeStore

	backend io.Closer
}

// New opens the backend selected by cfg, constructs every store and restores
// the cached activity list.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*App, error) {
	kv, backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("store backend opened")

	opts := []app.Option{
		app.WithLogger(log),
		app.WithWriteTimeout(cfg.WriteTimeout),
	}
	a := &App{
		KV:         kv,
		Session:    app.NewSessionStore(kv, opts...),
		Counter:    app.NewCounterStore(ctx, kv, opts...),
		Activities: app.NewActivityStore(kv, opts...),
		Theme:      app.NewThemeStore(ctx, kv, opts...),
		backend:    backend,
	}
	if a.Activities.LoadFromCache(ctx) {
		log.Info().Int("items", a.Activities.Len()).Msg("activities restored from cache")
	}
	return a, nil
}

func openBackend(cfg config.Config) (domain.KeyValueStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.New(), nopCloser{}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, cfg.LogDBQueries)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, db, nil
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Close flushes and stops every store, then closes the backend.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.Counter.Close(ctx),
		a.Activities.Close(ctx),
		a.Theme.Close(ctx),
		a.backend.Close(),
	)
}
