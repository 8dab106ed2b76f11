// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume

import (
	"context"
	"fmt"
)

// A ProduceFunc generates the sequence of items for a pipeline run. It is
// called once, in its own goroutine, and should call emit for each item in
// order. Emit blocks while the queue is full; this is the backpressure that
// keeps a fast producer from outrunning slow consumers. When emit returns a
// non-nil error the producer must stop generating and return: the error means
// the pipeline is shutting down (context cancellation) and will never succeed
// again for this run.
//
// Returning nil declares normal completion. Returning a non-nil error makes
// that error the pipeline's outcome (unless shutdown was already in progress
// for another reason). In every case, including a panic, the pipeline
// guarantees that completion is declared on the queue exactly once after the
// ProduceFunc exits, so consumers always drain and terminate rather than
// blocking forever.
//
// Any other inputs to the producer are expected to be provided by specifying
// the ProduceFunc as a [function literal] that references and therefore
// captures local variables via [lexical closure].
//
// [function literal]: https://go.dev/ref/spec#Function_literals
// [lexical closure]: https://en.wikipedia.org/wiki/Closure_(computer_programming)
type ProduceFunc[T any] = func(ctx context.Context, emit EmitFunc[T]) error

// An EmitFunc hands one item to the pipeline, blocking under backpressure. It
// returns nil once the item is buffered and the context's error if the run is
// canceled while waiting for space.
type EmitFunc[T any] = func(context.Context, T) error

// runProducer executes the produce function with panic capture and guarantees
// that completion is declared no matter how the function exits.
func (p *Pipeline[T]) runProducer(ctx context.Context) {
	defer close(p.producerDone)
	defer p.queue.Complete()

	emit := func(ctx context.Context, item T) error {
		if err := p.queue.Enqueue(ctx, item); err != nil {
			return err
		}
		p.produced.Add(1)
		return nil
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrProducePanicked, r)
			}
		}()
		return p.produce(ctx, emit)
	}()

	// Cancellation during shutdown is expected, not a producer failure.
	if err != nil && ctx.Err() == nil {
		p.setOutcome(err)
	}
}
