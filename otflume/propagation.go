// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package otflume provides OpenTelemetry integration for the flume pipeline
// library. It enables transparent propagation of trace context from the
// producer through the queue to whichever consumer ends up processing each
// item, without requiring users to manually handle context propagation.
package otflume

import (
	"context"

	flume "github.com/petenewcomb/flume-go"
	"go.opentelemetry.io/otel/trace"
)

// PropagatedItem wraps a user item with trace context information for
// propagation. This allows trace context to flow across the queue even when
// user code doesn't explicitly handle it: the queue hands items between
// goroutines, and a context value cannot make that crossing on its own.
type PropagatedItem[T any] struct {
	// UserItem is the original item passed to emit by the user function
	UserItem T
	// TraceContext is the trace context to propagate
	TraceContext trace.SpanContext
}

// PropagateProducer wraps a ProduceFunc so that every emitted item carries
// the trace context active in the producer at the moment of emission.
func PropagateProducer[T any](
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
) flume.ProduceFunc[PropagatedItem[T]] {
	return func(ctx context.Context, emit flume.EmitFunc[PropagatedItem[T]]) error {
		wrappedEmit := func(ctx context.Context, item T) error {
			return emit(ctx, PropagatedItem[T]{
				UserItem:     item,
				TraceContext: trace.SpanFromContext(ctx).SpanContext(),
			})
		}
		return produce(ctx, wrappedEmit)
	}
}

// PropagateConsumer wraps a ConsumeFunc so that it runs with the trace
// context the item was emitted under, allowing spans created in the consumer
// to be properly parented to the producer's trace.
func PropagateConsumer[T any](
	consume func(ctx context.Context, item T) error,
) flume.ConsumeFunc[PropagatedItem[T]] {
	return func(ctx context.Context, wrapped PropagatedItem[T]) error {
		propagatedCtx := ctx
		if wrapped.TraceContext.IsValid() {
			propagatedCtx = trace.ContextWithRemoteSpanContext(ctx, wrapped.TraceContext)
		}
		return consume(propagatedCtx, wrapped.UserItem)
	}
}

// PropagateFaultHandler wraps a FaultFunc so that fault reports run with the
// trace context of the item that failed.
func PropagateFaultHandler[T any](
	fault func(ctx context.Context, item T, err error),
) flume.FaultFunc[PropagatedItem[T]] {
	return func(ctx context.Context, wrapped PropagatedItem[T], err error) {
		propagatedCtx := ctx
		if wrapped.TraceContext.IsValid() {
			propagatedCtx = trace.ContextWithRemoteSpanContext(ctx, wrapped.TraceContext)
		}
		fault(propagatedCtx, wrapped.UserItem, err)
	}
}
