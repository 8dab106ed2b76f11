// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package waitq provides a queue of waiters, each listening on its own
// one-slot notification channel. It backs the space-available and
// item-available wait conditions of the flume queue monitor.
package waitq

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue is a FIFO of waiters. The zero value is ready to use. All methods are
// safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	waiters deque.Deque[Waiter]
}

// Add registers and returns a new waiter. Never blocks.
func (q *Queue) Add() Waiter {
	w := Waiter{
		q:          q,
		notifyChan: make(chan struct{}, 1),
	}
	q.mu.Lock()
	q.waiters.PushBack(w)
	q.mu.Unlock()
	return w
}

// Notify signals the oldest waiter that is still listening, if any. A waiter
// that has already been closed is skipped so that the notification is not
// lost.
func (q *Queue) Notify() {
	for {
		w, ok := q.pop()
		if !ok {
			return
		}

		select {
		case w.notifyChan <- struct{}{}:
			// The notification was sent.
			return
		default:
			// The channel was full, meaning that the waiter was closed. Loop
			// and try the next one.
		}
	}
}

// Broadcast signals every registered waiter. Used for state transitions that
// all parties must observe, such as completion or discard.
func (q *Queue) Broadcast() {
	for {
		w, ok := q.pop()
		if !ok {
			return
		}

		select {
		case w.notifyChan <- struct{}{}:
		default:
			// Already closed or already notified; either way it no longer
			// needs this signal.
		}
	}
}

func (q *Queue) pop() (Waiter, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.waiters.Len() == 0 {
		return Waiter{}, false
	}
	return q.waiters.PopFront(), true
}
