package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"tracker/internal/domain"
)

// CounterStore holds the non-negative counter and mirrors it to the
// key-value store after every change.
type CounterStore struct {
	kv  domain.KeyValueStore
	log zerolog.Logger
	w   *writer

	mu    sync.Mutex
	value int64
	subs  *broadcaster[int64]
}

// NewCounterStore creates a CounterStore and loads the persisted value.
// A missing or unreadable value starts the counter at zero.
func NewCounterStore(ctx context.Context, kv domain.KeyValueStore, opts ...Option) *CounterStore {
	o := newOptions(opts)
	s := &CounterStore{
		kv:   kv,
		log:  o.log.With().Str("store", "counter").Logger(),
		w:    newWriter("counter", o.log, o.writeTimeout),
		subs: newBroadcaster[int64]("counter"),
	}

	v, ok, err := kv.GetInt(ctx, domain.KeyCounterValue)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Msg("load counter, starting at zero")
	case ok && v > 0:
		s.value = v
	}
	return s
}

// Value returns the current counter value.
func (s *CounterStore) Value() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Increment adds one.
func (s *CounterStore) Increment() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(s.value + 1)
	return s.value
}

// Decrement subtracts one unless the counter is already zero.
func (s *CounterStore) Decrement() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value > 0 {
		s.set(s.value - 1)
	}
	return s.value
}

// Reset sets the counter to zero.
func (s *CounterStore) Reset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(0)
	return s.value
}

// set must be called with s.mu held.
func (s *CounterStore) set(v int64) {
	s.value = v
	s.subs.publish(v)
	s.w.schedule(domain.KeyCounterValue, func(ctx context.Context) error {
		return s.kv.SetInt(ctx, domain.KeyCounterValue, v)
	})
}

// Subscribe returns a channel that yields the current value followed by
// every later value, and a func that detaches the subscriber.
func (s *CounterStore) Subscribe() (<-chan int64, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.subscribe(s.value)
}

// Flush waits for pending writes to reach the key-value store.
func (s *CounterStore) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes and detaches all subscribers.
func (s *CounterStore) Close(ctx context.Context) error {
	s.subs.closeAll()
	return s.w.close(ctx)
}
