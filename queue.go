// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume

import (
	"context"
	"sync"

	"github.com/gammazero/deque"

	"github.com/petenewcomb/flume-go/internal/waitq"
)

// QueueState describes where a [Queue] is in its lifecycle.
type QueueState int32

const (
	// Open means the queue accepts enqueues and completion has not been
	// declared.
	Open QueueState = iota

	// Completing means completion has been declared but buffered items
	// remain to be dequeued. A Completing queue always holds at least one
	// item; it transitions to Closed under the same lock as the dequeue that
	// empties it.
	Completing

	// Closed means no item will ever be dequeued again, either because the
	// queue drained after completion or because it was discarded.
	Closed
)

func (s QueueState) String() string {
	switch s {
	case Open:
		return "Open"
	case Completing:
		return "Completing"
	case Closed:
		return "Closed"
	default:
		return "Invalid"
	}
}

// A Queue is a fixed-capacity FIFO shared between one producer and any number
// of competing consumers. Enqueue blocks while the queue is full and Dequeue
// blocks while it is empty but still open, so a slow consumer throttles a fast
// producer instead of letting memory grow without bound. Both blocking
// operations honor context cancellation.
//
// A Queue must be created with [NewQueue] and is intended for a single
// pipeline run: once Closed it stays Closed, and a new Queue must be
// constructed for the next run. All methods are safe for concurrent use.
//
// Items are delivered in the exact order they were enqueued. With a single
// consumer this is an end-to-end FIFO guarantee; with multiple consumers each
// item is still delivered to exactly one of them, but the global processing
// order across consumers is not defined.
type Queue[T any] struct {
	mu        sync.Mutex
	buf       deque.Deque[T]
	capacity  int
	state     QueueState
	highWater int

	// spaceWaiters holds producers blocked on a full queue; itemWaiters holds
	// consumers blocked on an empty one. Waiters are registered under mu in
	// the same critical section that observed the unsatisfied condition, so a
	// wakeup can never be missed.
	spaceWaiters waitq.Queue
	itemWaiters  waitq.Queue
}

// NewQueue creates a queue that buffers at most capacity items. Panics if
// capacity is less than one, since a queue that can hold nothing can never
// make progress.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("queue capacity must be at least one")
	}
	q := &Queue[T]{capacity: capacity}
	q.buf.Grow(capacity)
	return q
}

// Enqueue adds an item to the back of the queue, blocking while the queue is
// full. It returns nil once the item has been buffered, the context's error if
// cancellation occurs while waiting for space, and [ErrQueueCompleted] if
// [Queue.Complete] has already been called. Enqueueing after declaring
// completion is a contract violation on the producer's part; the error is not
// retryable.
func (q *Queue[T]) Enqueue(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for {
		q.mu.Lock()
		if q.state != Open {
			q.mu.Unlock()
			return ErrQueueCompleted
		}
		if q.buf.Len() < q.capacity {
			q.buf.PushBack(item)
			if q.buf.Len() > q.highWater {
				q.highWater = q.buf.Len()
			}
			q.mu.Unlock()
			q.itemWaiters.Notify()
			return nil
		}
		w := q.spaceWaiters.Add()
		q.mu.Unlock()
		if err := awaitNotify(ctx, w); err != nil {
			return err
		}
	}
}

// TryEnqueue is the non-blocking form of [Queue.Enqueue]. It returns
// [ErrWouldBlock] instead of waiting when the queue is full.
func (q *Queue[T]) TryEnqueue(item T) error {
	q.mu.Lock()
	if q.state != Open {
		q.mu.Unlock()
		return ErrQueueCompleted
	}
	if q.buf.Len() == q.capacity {
		q.mu.Unlock()
		return ErrWouldBlock
	}
	q.buf.PushBack(item)
	if q.buf.Len() > q.highWater {
		q.highWater = q.buf.Len()
	}
	q.mu.Unlock()
	q.itemWaiters.Notify()
	return nil
}

// Dequeue removes and returns the item at the front of the queue, blocking
// while the queue is empty but still open. Returns:
//
//   - item, true, nil: an item was dequeued
//   - zero, false, nil: no item will ever be available again (the queue
//     drained after [Queue.Complete] or was discarded)
//   - zero, false, non-nil: the context was canceled while waiting
//
// Once the first (zero, false, nil) result has been returned, every
// subsequent call returns the same without blocking.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	for {
		q.mu.Lock()
		if q.buf.Len() > 0 {
			item := q.popFrontLocked()
			q.mu.Unlock()
			q.spaceWaiters.Notify()
			return item, true, nil
		}
		if q.state != Open {
			q.mu.Unlock()
			return zero, false, nil
		}
		w := q.itemWaiters.Add()
		q.mu.Unlock()
		if err := awaitNotify(ctx, w); err != nil {
			return zero, false, err
		}
	}
}

// TryDequeue is the non-blocking form of [Queue.Dequeue]. It returns
// [ErrWouldBlock] instead of waiting when the queue is empty but still open;
// (zero, false, nil) retains its "no more items ever" meaning.
func (q *Queue[T]) TryDequeue() (T, bool, error) {
	var zero T
	q.mu.Lock()
	if q.buf.Len() > 0 {
		item := q.popFrontLocked()
		q.mu.Unlock()
		q.spaceWaiters.Notify()
		return item, true, nil
	}
	if q.state != Open {
		q.mu.Unlock()
		return zero, false, nil
	}
	q.mu.Unlock()
	return zero, false, ErrWouldBlock
}

func (q *Queue[T]) popFrontLocked() T {
	item := q.buf.PopFront()
	if q.state == Completing && q.buf.Len() == 0 {
		// Drained after completion; no dequeuer may ever block again.
		q.state = Closed
	}
	return item
}

// Complete declares that no further items will be enqueued. Blocked consumers
// wake so they can drain the remaining items and then observe closure instead
// of blocking forever. Complete is idempotent: calling it more than once has
// no additional effect.
//
// A producer blocked in [Queue.Enqueue] at the time of the call wakes and
// fails with [ErrQueueCompleted].
func (q *Queue[T]) Complete() {
	q.mu.Lock()
	if q.state == Open {
		if q.buf.Len() == 0 {
			q.state = Closed
		} else {
			q.state = Completing
		}
	}
	q.mu.Unlock()
	q.itemWaiters.Broadcast()
	q.spaceWaiters.Broadcast()
}

// Discard drops all buffered items and closes the queue immediately, without
// waiting for consumers to drain. It reports how many items were dropped.
// Blocked producers and consumers wake and observe closure. Discard is
// idempotent.
func (q *Queue[T]) Discard() int {
	q.mu.Lock()
	dropped := q.buf.Len()
	q.buf.Clear()
	q.state = Closed
	q.mu.Unlock()
	q.itemWaiters.Broadcast()
	q.spaceWaiters.Broadcast()
	return dropped
}

// Len returns the number of items currently buffered.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Len()
}

// Cap returns the queue's fixed capacity.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

// State returns the queue's current lifecycle state.
func (q *Queue[T]) State() QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// peakLen reports the highest occupancy observed so far.
func (q *Queue[T]) peakLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.highWater
}

// awaitNotify blocks until the waiter is notified or the context is canceled.
// The waiter is always closed on return so that an undelivered notification is
// passed along rather than lost.
func awaitNotify(ctx context.Context, w waitq.Waiter) error {
	defer w.Close()
	select {
	case <-w.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
