// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otflume

import (
	"context"

	flume "github.com/petenewcomb/flume-go"
)

// InstrumentedProducer combines tracing, metrics, and logging for producers
// into a single wrapper. This provides a convenient way to apply all
// instrumentation at once.
func InstrumentedProducer[T any](
	operationName string,
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
) flume.ProduceFunc[PropagatedItem[T]] {
	// Apply wrappers inside-out:
	// 1. First add logging
	loggedProduce := LoggedProducer(operationName, produce)

	// 2. Then add metrics
	metricsProduce := MetricsProducer(operationName, loggedProduce)

	// 3. Finally add tracing (which includes propagation)
	return TracedProducer(operationName, metricsProduce)
}

// InstrumentedConsumer combines tracing, metrics, and logging for consumers
// into a single wrapper. This provides a convenient way to apply all
// instrumentation at once.
func InstrumentedConsumer[T any](
	operationName string,
	consume func(ctx context.Context, item T) error,
) flume.ConsumeFunc[PropagatedItem[T]] {
	// Apply wrappers inside-out:
	// 1. First add logging
	loggedConsume := LoggedConsumer(operationName, consume)

	// 2. Then add metrics
	metricsConsume := MetricsConsumer(operationName, loggedConsume)

	// 3. Finally add tracing (which includes propagation)
	return TracedConsumer(operationName, metricsConsume)
}

// InstrumentedPipeline is a convenience constructor that builds a
// [flume.Pipeline] from instrumented components, wiring the propagated item
// type through so that the user never handles it directly.
//
// Example:
//
//	p := otflume.InstrumentedPipeline(config, "generate", produceFunc, "process", consumeFunc)
//	err := p.Run(ctx)
func InstrumentedPipeline[T any](
	config flume.Config,
	produceOpName string,
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
	consumeOpName string,
	consume func(ctx context.Context, item T) error,
	opts ...flume.Option[PropagatedItem[T]],
) *flume.Pipeline[PropagatedItem[T]] {
	return flume.New(
		config,
		InstrumentedProducer(produceOpName, produce),
		InstrumentedConsumer(consumeOpName, consume),
		opts...,
	)
}
