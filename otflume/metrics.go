// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otflume

import (
	"context"
	"time"

	flume "github.com/petenewcomb/flume-go"
	"go.opentelemetry.io/otel"
)

// MetricsProducer adds metrics collection to a producer.
// This wrapper records count, duration, and error metrics for the production
// run, plus a per-item counter incremented on each emit.
func MetricsProducer[T any](
	metricName string,
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
) flume.ProduceFunc[T] {
	return func(ctx context.Context, emit flume.EmitFunc[T]) error {
		startTime := time.Now()
		meter := otel.GetMeterProvider().Meter("otflume")

		// Create metrics
		runCounter, _ := meter.Int64Counter(metricName + ".count")
		runDuration, _ := meter.Float64Histogram(metricName + ".duration")
		itemCounter, _ := meter.Int64Counter(metricName + ".items")

		// Track execution
		runCounter.Add(ctx, 1)

		// Count each emitted item
		countingEmit := func(ctx context.Context, item T) error {
			if err := emit(ctx, item); err != nil {
				return err
			}
			itemCounter.Add(ctx, 1)
			return nil
		}

		// Execute producer
		err := produce(ctx, countingEmit)

		// Record duration
		duration := time.Since(startTime).Seconds()
		runDuration.Record(ctx, duration)

		// Record error if any
		if err != nil {
			errorCounter, _ := meter.Int64Counter(metricName + ".errors")
			errorCounter.Add(ctx, 1)
		}

		return err
	}
}

// MetricsConsumer adds metrics collection to a consume function.
// This wrapper records count, duration, and error metrics per processed item.
func MetricsConsumer[T any](
	metricName string,
	consume func(ctx context.Context, item T) error,
) flume.ConsumeFunc[T] {
	return func(ctx context.Context, item T) error {
		startTime := time.Now()
		meter := otel.GetMeterProvider().Meter("otflume")

		// Create metrics
		itemCounter, _ := meter.Int64Counter(metricName + ".count")
		itemDuration, _ := meter.Float64Histogram(metricName + ".duration")

		// Track execution
		itemCounter.Add(ctx, 1)

		// Execute consumer
		err := consume(ctx, item)

		// Record duration
		duration := time.Since(startTime).Seconds()
		itemDuration.Record(ctx, duration)

		// Record error if any
		if err != nil {
			errorCounter, _ := meter.Int64Counter(metricName + ".errors")
			errorCounter.Add(ctx, 1)
		}

		return err
	}
}
