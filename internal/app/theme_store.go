package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"tracker/internal/domain"
)

// ThemeStore holds the dark-theme flag.
type ThemeStore struct {
	kv  domain.KeyValueStore
	log zerolog.Logger
	w   *writer

	mu   sync.Mutex
	dark bool
}

// NewThemeStore creates a ThemeStore and loads the persisted flag.
func NewThemeStore(ctx context.Context, kv domain.KeyValueStore, opts ...Option) *ThemeStore {
	o := newOptions(opts)
	s := &ThemeStore{
		kv:  kv,
		log: o.log.With().Str("store", "theme").Logger(),
		w:   newWriter("theme", o.log, o.writeTimeout),
	}
	dark, _, err := kv.GetBool(ctx, domain.KeyDarkTheme)
	if err != nil {
		s.log.Warn().Err(err).Msg("load theme, using light")
	}
	s.dark = dark
	return s
}

// IsDark reports whether the dark theme is selected.
func (s *ThemeStore) IsDark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// SetDark selects the dark or light theme.
func (s *ThemeStore) SetDark(dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(dark)
}

// Toggle flips the theme and returns the new value.
func (s *ThemeStore) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(!s.dark)
	return s.dark
}

func (s *ThemeStore) set(dark bool) {
	s.dark = dark
	s.w.schedule(domain.KeyDarkTheme, func(ctx context.Context) error {
		return s.kv.SetBool(ctx, domain.KeyDarkTheme, dark)
	})
}

// Flush waits for pending writes to reach the key-value store.
func (s *ThemeStore) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes.
func (s *ThemeStore) Close(ctx context.Context) error {
	return s.w.close(ctx)
}
