// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/petenewcomb/flume-go"
)

// A single consumer preserves production order, so the greetings come out
// exactly as they went in.
func Example() {
	p := flume.New(
		flume.Config{Capacity: 2, Consumers: 1, Policy: flume.Drain},
		func(ctx context.Context, emit flume.EmitFunc[string]) error {
			for _, s := range []string{"hello", "bounded", "world"} {
				if err := emit(ctx, s); err != nil {
					return err
				}
			}
			return nil
		},
		func(ctx context.Context, s string) error {
			fmt.Println(s)
			return nil
		},
	)
	if err := p.Run(context.Background()); err != nil {
		fmt.Println(err)
	}
	// Output:
	// hello
	// bounded
	// world
}

// Multiple consumers compete for items. Interleaving is nondeterministic, but
// each item is delivered exactly once, so aggregates are stable.
func Example_competingConsumers() {
	var sum atomic.Int64
	p := flume.New(
		flume.Config{Capacity: 4, Consumers: 3, Policy: flume.Drain},
		func(ctx context.Context, emit flume.EmitFunc[int]) error {
			for i := 1; i <= 100; i++ {
				if err := emit(ctx, i); err != nil {
					return err
				}
			}
			return nil
		},
		func(ctx context.Context, n int) error {
			sum.Add(int64(n))
			return nil
		},
	)
	if err := p.Run(context.Background()); err != nil {
		fmt.Println(err)
	}
	stats := p.Stats()
	fmt.Println("consumed:", stats.Consumed)
	fmt.Println("sum:", sum.Load())
	// Output:
	// consumed: 100
	// sum: 5050
}

// Cancellation under the Drain policy stops the producer but still processes
// every item that made it into the queue, so nothing is lost silently.
func Example_drainOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emitted := make(chan struct{})
	p := flume.New(
		flume.Config{Capacity: 3, Consumers: 1, Policy: flume.Drain},
		func(ctx context.Context, emit flume.EmitFunc[int]) error {
			for i := 0; i < 6; i++ {
				if err := emit(ctx, i); err != nil {
					return err
				}
			}
			close(emitted)
			// Hold the producer open until the run is canceled.
			<-ctx.Done()
			return ctx.Err()
		},
		func(ctx context.Context, n int) error {
			return nil
		},
	)
	p.Start(ctx)
	<-emitted
	cancel()
	err := p.Wait(context.Background())
	fmt.Println("outcome:", err)
	fmt.Println("consumed:", p.Stats().Consumed)
	// Output:
	// outcome: context canceled
	// consumed: 6
}

// Stop with the Discard policy abandons whatever is still buffered instead of
// waiting for it to be processed. Here the consumer is held until shutdown,
// so everything in the queue at that moment is dropped.
func Example_discardOnStop() {
	filled := make(chan struct{})
	p := flume.New(
		flume.Config{Capacity: 5, Consumers: 1, Policy: flume.Discard},
		func(ctx context.Context, emit flume.EmitFunc[int]) error {
			// The sixth emit blocks until the consumer takes one item, so by
			// the time all six land the queue is full and the consumer holds
			// exactly one item in flight.
			for i := 0; i < 6; i++ {
				if err := emit(ctx, i); err != nil {
					return err
				}
			}
			close(filled)
			// Block until shutdown cancels production.
			<-ctx.Done()
			return nil
		},
		func(ctx context.Context, n int) error {
			// Park until shutdown so the queue stays full.
			<-ctx.Done()
			return ctx.Err()
		},
	)
	p.Start(context.Background())
	<-filled
	p.Stop()
	if err := p.Wait(context.Background()); err != nil {
		fmt.Println(err)
	}
	stats := p.Stats()
	fmt.Println("consumed:", stats.Consumed)
	fmt.Println("dropped:", stats.Dropped)
	// Output:
	// consumed: 0
	// dropped: 5
}
