package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tracker/internal/metrics"
)

var errWriterClosed = errors.New("store is closed")

type writeJob struct {
	op     string
	fn     func(ctx context.Context) error
	result chan error      // nil for fire-and-forget writes
	caller context.Context // set with result; the job is skipped once it ends
	done   chan struct{}
}

// writer applies a store's persistence writes one at a time, in the order
// they were scheduled. Fire-and-forget failures are logged and counted.
type writer struct {
	store   string
	log     zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []writeJob
	closed  bool
	stopped chan struct{}
}

func newWriter(store string, log zerolog.Logger, timeout time.Duration) *writer {
	w := &writer{
		store:   store,
		log:     log.With().Str("store", store).Logger(),
		timeout: timeout,
		stopped: make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.closed {
			w.cond.Wait()
		}
		if len(w.queue) == 0 {
			w.mu.Unlock()
			return
		}
		job := w.queue[0]
		w.queue[0] = writeJob{}
		w.queue = w.queue[1:]
		metrics.PersistQueueDepth.WithLabelValues(w.store).Set(float64(len(w.queue)))
		w.mu.Unlock()

		w.apply(job)
	}
}

func (w *writer) apply(job writeJob) {
	if job.done != nil {
		close(job.done)
		return
	}

	if job.caller != nil && job.caller.Err() != nil {
		metrics.PersistWritesTotal.WithLabelValues(w.store, "dropped").Inc()
		w.log.Debug().Str("op", job.op).Msg("write skipped: caller gone")
		job.result <- job.caller.Err()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	err := job.fn(ctx)
	cancel()

	if job.result != nil {
		job.result <- err
		return
	}
	if err != nil {
		metrics.PersistWritesTotal.WithLabelValues(w.store, "error").Inc()
		w.log.Warn().Err(err).Str("op", job.op).Msg("persist write failed")
		return
	}
	metrics.PersistWritesTotal.WithLabelValues(w.store, "ok").Inc()
	w.log.Debug().Str("op", job.op).Msg("persisted")
}

func (w *writer) enqueue(job writeJob) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.queue = append(w.queue, job)
	metrics.PersistQueueDepth.WithLabelValues(w.store).Set(float64(len(w.queue)))
	w.cond.Signal()
	return true
}

// schedule queues a best-effort write and returns immediately.
func (w *writer) schedule(op string, fn func(ctx context.Context) error) {
	if !w.enqueue(writeJob{op: op, fn: fn}) {
		metrics.PersistWritesTotal.WithLabelValues(w.store, "dropped").Inc()
		w.log.Warn().Str("op", op).Msg("write dropped: store closed")
	}
}

// do queues fn behind every pending write and waits for its result. If ctx
// ends while the job is still queued, the job is skipped. A job that already
// started runs to completion even though do has returned ctx.Err().
func (w *writer) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	result := make(chan error, 1)
	if !w.enqueue(writeJob{op: op, fn: fn, result: result, caller: ctx}) {
		return errWriterClosed
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flush waits until every write scheduled before the call has been applied.
func (w *writer) flush(ctx context.Context) error {
	done := make(chan struct{})
	if !w.enqueue(writeJob{done: done}) {
		select {
		case <-w.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting writes and waits for the queue to drain.
func (w *writer) close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		w.cond.Broadcast()
	}
	w.mu.Unlock()

	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
