// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume_test

import (
	"context"
	"testing"
	"time"

	"github.com/petenewcomb/flume-go"
	"github.com/petenewcomb/flume-go/internal/sim"
	"github.com/stretchr/testify/require"
)

// TestPipelineConsumerBoundTiming runs a pipeline whose consumer is an order
// of magnitude slower than its producer and checks that the overall duration
// is governed by consumption, not production. The expected duration comes
// from a discrete-event model of the same plan; the real run gets a wide
// envelope to absorb scheduler jitter.
func TestPipelineConsumerBoundTiming(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping wall-clock timing test in short mode")
	}

	chk := require.New(t)

	plan := sim.Plan{
		ItemCount:       20,
		ProduceInterval: time.Millisecond,
		ConsumeDuration: 10 * time.Millisecond,
		Consumers:       1,
		Capacity:        5,
	}
	estimate := sim.Estimate(plan)

	// Sanity-check the model itself: a single slow consumer is busy back to
	// back once the first item arrives.
	chk.Equal(plan.ProduceInterval+time.Duration(plan.ItemCount)*plan.ConsumeDuration, estimate)

	p := flume.New(
		flume.Config{
			Capacity:  plan.Capacity,
			Consumers: plan.Consumers,
			Policy:    flume.Drain,
		},
		func(ctx context.Context, emit flume.EmitFunc[int]) error {
			for i := 0; i < plan.ItemCount; i++ {
				select {
				case <-time.After(plan.ProduceInterval):
				case <-ctx.Done():
					return ctx.Err()
				}
				if err := emit(ctx, i); err != nil {
					return err
				}
			}
			return nil
		},
		func(ctx context.Context, item int) error {
			select {
			case <-time.After(plan.ConsumeDuration):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	start := time.Now()
	chk.NoError(p.Run(context.Background()))
	observed := time.Since(start)

	stats := p.Stats()
	chk.Equal(uint64(plan.ItemCount), stats.Produced)
	chk.Equal(uint64(plan.ItemCount), stats.Consumed)
	chk.Zero(stats.Dropped)

	// Sleeps only ever overshoot, so the estimate is a hard floor. The
	// ceiling is deliberately loose; the point is that the run tracks the
	// consumer-bound estimate rather than the production-bound duration,
	// which would be an order of magnitude shorter.
	chk.GreaterOrEqual(observed, estimate)
	chk.Less(observed, 3*estimate)
	chk.Greater(observed, 5*time.Duration(plan.ItemCount)*plan.ProduceInterval)
}
