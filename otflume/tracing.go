// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otflume

import (
	"context"

	flume "github.com/petenewcomb/flume-go"
	"go.opentelemetry.io/otel"
)

// TracedProducer adds a span covering the whole production run and propagates
// its context with every emitted item. This builds on PropagateProducer,
// adding explicit span creation while maintaining trace context propagation.
func TracedProducer[T any](
	operationName string,
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
) flume.ProduceFunc[PropagatedItem[T]] {
	// Use the base propagator first
	propagatedProduce := PropagateProducer(produce)

	return func(ctx context.Context, emit flume.EmitFunc[PropagatedItem[T]]) error {
		// Create span with meaningful name
		tracer := otel.Tracer("otflume")
		ctx, span := tracer.Start(ctx, operationName)
		defer span.End()

		// Execute with propagation
		return propagatedProduce(ctx, emit)
	}
}

// TracedConsumer adds a per-item span with the given operation name,
// parented to the trace context the item was emitted under. This builds on
// PropagateConsumer.
func TracedConsumer[T any](
	operationName string,
	consume func(ctx context.Context, item T) error,
) flume.ConsumeFunc[PropagatedItem[T]] {
	// Create a consume function that adds tracing
	tracedConsume := func(ctx context.Context, item T) error {
		// Create span with meaningful name
		tracer := otel.Tracer("otflume")
		ctx, span := tracer.Start(ctx, operationName)
		defer span.End()

		// Call the original consume function
		return consume(ctx, item)
	}

	// Then use the base propagation
	return PropagateConsumer(tracedConsume)
}

// WithProducerTracing is a convenience function that applies tracing to a
// producer without changing its item type. This is useful when you want to
// trace the production run but don't need the trace context to follow each
// item to its consumer.
func WithProducerTracing[T any](
	operationName string,
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
) flume.ProduceFunc[T] {
	return func(ctx context.Context, emit flume.EmitFunc[T]) error {
		// Create span with meaningful name
		tracer := otel.Tracer("otflume")
		ctx, span := tracer.Start(ctx, operationName)
		defer span.End()

		// Execute original producer with traced context
		return produce(ctx, emit)
	}
}

// WithConsumerTracing is the per-item analogue of WithProducerTracing: a span
// per processed item, created in the consumer's own trace rather than
// parented to the producer's.
func WithConsumerTracing[T any](
	operationName string,
	consume func(ctx context.Context, item T) error,
) flume.ConsumeFunc[T] {
	return func(ctx context.Context, item T) error {
		// Create span with meaningful name
		tracer := otel.Tracer("otflume")
		ctx, span := tracer.Start(ctx, operationName)
		defer span.End()

		// Execute original consumer with traced context
		return consume(ctx, item)
	}
}
