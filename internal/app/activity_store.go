package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tracker/internal/domain"
)

// ActivityStore holds the ordered activity list. Every change rewrites the
// whole cache snapshot together with a fresh cache timestamp.
type ActivityStore struct {
	kv  domain.KeyValueStore
	log zerolog.Logger
	w   *writer
	now func() time.Time

	mu    sync.Mutex
	items []domain.ActivityItem
	subs  *broadcaster[[]domain.ActivityItem]
}

// NewActivityStore creates an empty ActivityStore. Call LoadFromCache to
// restore the persisted snapshot.
func NewActivityStore(kv domain.KeyValueStore, opts ...Option) *ActivityStore {
	o := newOptions(opts)
	return &ActivityStore{
		kv:    kv,
		log:   o.log.With().Str("store", "activity").Logger(),
		w:     newWriter("activity", o.log, o.writeTimeout),
		now:   o.now,
		items: []domain.ActivityItem{},
		subs:  newBroadcaster[[]domain.ActivityItem]("activity"),
	}
}

// LoadFromCache replaces the in-memory list with the persisted snapshot if
// one exists and is non-empty, and reports whether it did. Mutations wait
// until the load has finished.
func (s *ActivityStore) LoadFromCache(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Writer jobs never take s.mu, so flushing under the lock cannot deadlock.
	if err := s.w.flush(ctx); err != nil {
		s.log.Warn().Err(err).Msg("flush before cache load")
	}

	entries, ok, err := s.kv.GetStringList(ctx, domain.KeyCachedActivities)
	if err != nil {
		s.log.Warn().Err(err).Msg("load activity cache")
		return false
	}
	if !ok || len(entries) == 0 {
		return false
	}

	items, skipped := decodeActivities(entries)
	if skipped > 0 {
		s.log.Warn().Int("skipped", skipped).Msg("ignored malformed cached activities")
	}
	if len(items) == 0 {
		return false
	}

	s.items = items
	s.subs.publish(slices.Clone(items))
	return true
}

// Items returns a copy of the current list.
func (s *ActivityStore) Items() []domain.ActivityItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len returns the number of items.
func (s *ActivityStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Add appends a new item. Blank text is ignored and reported as false.
func (s *ActivityStore) Add(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, domain.ActivityItem{Text: text})
	s.commit("add")
	return true
}

// Toggle flips the done flag of the item at index.
func (s *ActivityStore) Toggle(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items[index].Done = !s.items[index].Done
	s.commit("toggle")
	return nil
}

// Delete removes the item at index.
func (s *ActivityStore) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items = slices.Delete(s.items, index, index+1)
	s.commit("delete")
	return nil
}

// ClearAll empties the list.
func (s *ActivityStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []domain.ActivityItem{}
	s.commit("clear")
}

func (s *ActivityStore) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d (len %d)", domain.ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}

// commit publishes the list and schedules a snapshot write. s.mu must be held.
func (s *ActivityStore) commit(op string) {
	snapshot := slices.Clone(s.items)
	s.subs.publish(slices.Clone(snapshot))

	encoded := encodeActivities(snapshot)
	s.w.schedule(op, func(ctx context.Context) error {
		if err := s.kv.SetStringList(ctx, domain.KeyCachedActivities, encoded); err != nil {
			return err
		}
		return s.kv.SetString(ctx, domain.KeyCacheTimestamp, formatTimestamp(s.now()))
	})
}

// CacheTimestamp returns the time of the last cache write, if any.
func (s *ActivityStore) CacheTimestamp(ctx context.Context) (time.Time, bool) {
	if err := s.w.flush(ctx); err != nil {
		s.log.Warn().Err(err).Msg("flush before cache timestamp read")
	}
	raw, ok, err := s.kv.GetString(ctx, domain.KeyCacheTimestamp)
	if err != nil {
		s.log.Warn().Err(err).Msg("load cache timestamp")
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.log.Warn().Err(err).Str("value", raw).Msg("unparseable cache timestamp")
		return time.Time{}, false
	}
	return ts, true
}

// ClearCache removes the persisted snapshot and its timestamp after all
// pending writes. The in-memory list is left untouched.
func (s *ActivityStore) ClearCache(ctx context.Context) error {
	err := s.w.do(ctx, "clear_cache", func(ctx context.Context) error {
		if err := s.kv.Remove(ctx, domain.KeyCachedActivities); err != nil {
			return err
		}
		return s.kv.Remove(ctx, domain.KeyCacheTimestamp)
	})
	if err != nil {
		return fmt.Errorf("clear activity cache: %w", err)
	}
	return nil
}

// Subscribe returns a channel yielding the current list followed by the
// list after every change, and a func that detaches the subscriber.
func (s *ActivityStore) Subscribe() (<-chan []domain.ActivityItem, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.subscribe(slices.Clone(s.items))
}

// Flush waits for pending writes to reach the key-value store.
func (s *ActivityStore) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close flushes pending writes and detaches all subscribers.
func (s *ActivityStore) Close(ctx context.Context) error {
	s.subs.closeAll()
	return s.w.close(ctx)
}
