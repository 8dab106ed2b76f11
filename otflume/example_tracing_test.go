// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otflume_test

import (
	"context"
	"fmt"
	"io"

	flume "github.com/petenewcomb/flume-go"
	"github.com/petenewcomb/flume-go/otflume"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Example demonstrating how to use the otflume tracing integration
func Example_tracing() {
	// Configure a stdout exporter for demonstration, discarding the span dump
	// to keep the example output deterministic
	exporter, _ := stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	// Create a root context with a parent span
	ctx, rootSpan := otel.Tracer("example").Start(context.Background(), "process-request")
	defer rootSpan.End()

	// Producer emits a few values under its own span; each item carries the
	// trace context across the queue to the consumer that processes it.
	produce := otflume.TracedProducer("load-data", func(ctx context.Context, emit flume.EmitFunc[int]) error {
		for i := 1; i <= 3; i++ {
			if err := emit(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})

	consume := otflume.TracedConsumer("process-data", func(ctx context.Context, item int) error {
		fmt.Println("Processing item:", item)
		return nil
	})

	pipeline := flume.New(flume.Config{Capacity: 2, Consumers: 1}, produce, consume)
	if err := pipeline.Run(ctx); err != nil {
		fmt.Println("Error:", err)
	}

	// Output:
	// Processing item: 1
	// Processing item: 2
	// Processing item: 3
}

// Example demonstrating a fully instrumented pipeline
func Example_instrumentedPipeline() {
	// Set up tracing provider (simplified)
	exporter, _ := stdouttrace.New(stdouttrace.WithWriter(io.Discard))
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.AlwaysSample()),
		trace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	ctx := context.Background()

	sum := 0
	pipeline := otflume.InstrumentedPipeline(
		flume.Config{Capacity: 4, Consumers: 1},
		"generate-numbers",
		func(ctx context.Context, emit flume.EmitFunc[int]) error {
			for i := 1; i <= 10; i++ {
				if err := emit(ctx, i); err != nil {
					return err
				}
			}
			return nil
		},
		"accumulate",
		func(ctx context.Context, item int) error {
			sum += item
			return nil
		},
	)

	if err := pipeline.Run(ctx); err != nil {
		fmt.Println("Error:", err)
	}
	fmt.Println("Sum:", sum)

	// Output:
	// Sum: 55
}
