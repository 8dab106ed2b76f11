// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otflume

import (
	"context"
	"time"

	flume "github.com/petenewcomb/flume-go"
	"go.uber.org/zap"
)

// LoggedProducer adds structured logging to a producer.
// This wrapper logs the start and completion of the production run, including
// timing information and any error that occurs.
func LoggedProducer[T any](
	operationName string,
	produce func(ctx context.Context, emit flume.EmitFunc[T]) error,
) flume.ProduceFunc[T] {
	return func(ctx context.Context, emit flume.EmitFunc[T]) error {
		// Get logger from context or use a default
		// This implementation uses zap, but could be adapted for any logger
		logger := zap.L()

		// Log start of operation
		logger.Debug("Starting producer",
			zap.String("operation", operationName),
			zap.String("component", "otflume"))

		// Time the operation
		startTime := time.Now()
		err := produce(ctx, emit)
		duration := time.Since(startTime)

		// Log completion with appropriate level based on success/failure
		if err != nil {
			logger.Error("Producer failed",
				zap.String("operation", operationName),
				zap.String("component", "otflume"),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("Producer completed",
				zap.String("operation", operationName),
				zap.String("component", "otflume"),
				zap.Duration("duration", duration))
		}

		return err
	}
}

// LoggedConsumer adds structured logging to a consume function.
// This wrapper logs the processing of each item, including timing information
// and any errors that occur.
func LoggedConsumer[T any](
	operationName string,
	consume func(ctx context.Context, item T) error,
) flume.ConsumeFunc[T] {
	return func(ctx context.Context, item T) error {
		// Get logger from context or use a default
		logger := zap.L()

		// Log starting item processing
		logger.Debug("Processing item",
			zap.String("operation", operationName),
			zap.String("component", "otflume"))

		// Time the operation
		startTime := time.Now()
		err := consume(ctx, item)
		duration := time.Since(startTime)

		// Log completion with appropriate level based on success/failure
		if err != nil {
			logger.Error("Item processing failed",
				zap.String("operation", operationName),
				zap.String("component", "otflume"),
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			logger.Debug("Item processed",
				zap.String("operation", operationName),
				zap.String("component", "otflume"),
				zap.Duration("duration", duration))
		}

		return err
	}
}

// LoggedFaultHandler returns a fault handler that reports every failed item
// through zap. It can be used directly with [flume.WithFaultHandler] or
// composed with a user handler via [ChainedFaultHandler].
func LoggedFaultHandler[T any](operationName string) flume.FaultFunc[T] {
	return func(ctx context.Context, item T, err error) {
		zap.L().Error("Item fault",
			zap.String("operation", operationName),
			zap.String("component", "otflume"),
			zap.Error(err))
	}
}

// ChainedFaultHandler invokes the given fault handlers in order. Useful for
// combining logging with the host's own reporting.
func ChainedFaultHandler[T any](handlers ...flume.FaultFunc[T]) flume.FaultFunc[T] {
	return func(ctx context.Context, item T, err error) {
		for _, h := range handlers {
			h(ctx, item, err)
		}
	}
}
