// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume

import (
	"context"
	"fmt"
)

// A ConsumeFunc processes one item. The pipeline runs a fixed number of
// consumer goroutines that compete for items from the shared queue, so each
// item is handed to exactly one ConsumeFunc call. A ConsumeFunc must be
// thread-safe with respect to the other consumer goroutines, including access
// to any captured variables.
//
// A non-nil error (or a panic, which is recovered and wrapped as
// [ErrConsumePanicked]) marks that one item as faulted. The fault is reported
// through the pipeline's fault handler and the consumer loop continues with
// the next item; a single bad item never stops the pipeline.
type ConsumeFunc[T any] = func(ctx context.Context, item T) error

// A FaultFunc receives each item that failed processing together with the
// error that caused the failure. It runs on the consumer goroutine that
// processed the item and must be thread-safe. Reporting is the host's
// responsibility; the pipeline itself only counts faults.
type FaultFunc[T any] = func(ctx context.Context, item T, err error)

// runConsumer pulls items from the queue until it reports that no more will
// ever arrive, or until the consumer context is canceled during a discard
// shutdown.
func (p *Pipeline[T]) runConsumer(ctx context.Context) {
	for {
		item, ok, err := p.queue.Dequeue(ctx)
		if err != nil {
			// Canceled while waiting; only Discard shutdown cancels this
			// context, and it closes the queue as well, so nothing is left
			// for this consumer to do.
			return
		}
		if !ok {
			return
		}
		if err := p.consumeOne(ctx, item); err != nil {
			p.faulted.Add(1)
			if p.fault != nil {
				p.fault(ctx, item, err)
			}
			continue
		}
		p.consumed.Add(1)
	}
}

func (p *Pipeline[T]) consumeOne(ctx context.Context, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrConsumePanicked, r)
		}
	}()
	return p.consume(ctx, item)
}
