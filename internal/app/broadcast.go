package app

import (
	"sync"

	"github.com/google/uuid"

	"tracker/internal/metrics"
)

// broadcaster fans published values out to subscribers. Every subscriber
// sees every value published while it is attached, in publication order.
type broadcaster[T any] struct {
	store string

	mu     sync.Mutex
	subs   map[uuid.UUID]*subscription[T]
	closed bool
}

func newBroadcaster[T any](store string) *broadcaster[T] {
	return &broadcaster[T]{
		store: store,
		subs:  make(map[uuid.UUID]*subscription[T]),
	}
}

type subscription[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []T
	closed  bool
	done    chan struct{}
	once    sync.Once
	out     chan T
}

func newSubscription[T any]() *subscription[T] {
	s := &subscription[T]{
		done: make(chan struct{}),
		out:  make(chan T),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.pump()
	return s
}

// pump delivers pending values without blocking the publisher on slow readers.
func (s *subscription[T]) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		for len(s.pending) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		v := s.pending[0]
		var zero T
		s.pending[0] = zero
		s.pending = s.pending[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}

func (s *subscription[T]) push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, v)
	s.cond.Signal()
}

func (s *subscription[T]) stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.pending = nil
		s.cond.Broadcast()
		s.mu.Unlock()
		close(s.done)
	})
}

// subscribe attaches a subscriber whose first value is current.
func (b *broadcaster[T]) subscribe(current T) (<-chan T, func()) {
	sub := newSubscription[T]()
	id := uuid.New()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.stop()
		return sub.out, func() {}
	}
	b.subs[id] = sub
	sub.push(current)
	metrics.Subscribers.WithLabelValues(b.store).Set(float64(len(b.subs)))
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, id)
		metrics.Subscribers.WithLabelValues(b.store).Set(float64(len(b.subs)))
		b.mu.Unlock()
		sub.stop()
	}
	return sub.out, cancel
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		sub.push(v)
	}
}

// closeAll detaches every subscriber; their channels are closed.
func (b *broadcaster[T]) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uuid.UUID]*subscription[T])
	b.closed = true
	metrics.Subscribers.WithLabelValues(b.store).Set(0)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}
