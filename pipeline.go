// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// ShutdownPolicy selects what happens to buffered items when a running
// pipeline receives a shutdown signal (an explicit [Pipeline.Stop], context
// cancellation, or deadline expiry).
type ShutdownPolicy int

const (
	// Drain stops the producer but lets consumers keep running until every
	// buffered item has been processed.
	Drain ShutdownPolicy = iota

	// Discard closes the queue immediately, dropping buffered items and
	// canceling the context passed to in-flight consume calls.
	Discard
)

func (p ShutdownPolicy) String() string {
	switch p {
	case Drain:
		return "Drain"
	case Discard:
		return "Discard"
	default:
		return "Invalid"
	}
}

// PipelineState describes where a [Pipeline] is in its lifecycle. The only
// transitions are Created to Running to ShuttingDown to Stopped; Stopped is
// terminal and a pipeline is never restarted.
type PipelineState int32

const (
	// Created means the pipeline has been constructed but not yet started.
	Created PipelineState = iota

	// Running means the producer and consumers are active.
	Running

	// ShuttingDown means the producer has finished or been stopped and
	// consumers are winding down according to the shutdown policy.
	ShuttingDown

	// Stopped means every goroutine has exited and the outcome is final.
	Stopped
)

func (s PipelineState) String() string {
	switch s {
	case Created:
		return "Created"
	case Running:
		return "Running"
	case ShuttingDown:
		return "ShuttingDown"
	case Stopped:
		return "Stopped"
	default:
		return "Invalid"
	}
}

// Config carries the recognized pipeline options. There are no usable
// defaults; Capacity and Consumers must both be set to at least one.
type Config struct {
	// Capacity is the bound on queue occupancy and therefore on the number of
	// items buffered between producer and consumers. Must be at least one.
	Capacity int

	// Consumers is the number of competing consumer goroutines. Must be at
	// least one.
	Consumers int

	// Policy selects the shutdown behavior. The zero value is [Drain].
	Policy ShutdownPolicy

	// Timeout, when positive, cancels the run after the given duration. It is
	// layered on the same cancellation path as the context passed to
	// [Pipeline.Start]; there is no separate timeout mechanism.
	Timeout time.Duration
}

func (c Config) validate() {
	if c.Capacity < 1 {
		panic("pipeline capacity must be at least one")
	}
	if c.Consumers < 1 {
		panic("pipeline must have at least one consumer")
	}
	if c.Policy != Drain && c.Policy != Discard {
		panic("invalid shutdown policy")
	}
	if c.Timeout < 0 {
		panic("pipeline timeout may not be negative")
	}
}

// An Option customizes a [Pipeline] at construction time.
type Option[T any] func(*Pipeline[T])

// WithFaultHandler installs the function that receives items whose processing
// failed, together with the error. Without a handler faults are counted in
// [Pipeline.Stats] but otherwise dropped.
func WithFaultHandler[T any](fault FaultFunc[T]) Option[T] {
	return func(p *Pipeline[T]) {
		p.fault = fault
	}
}

// A Pipeline runs one producer and a fixed set of competing consumers against
// a shared bounded [Queue] and coordinates their shutdown. A Pipeline is built
// with [New], runs exactly once, and ends in the terminal [Stopped] state; a
// new Pipeline (with its own fresh queue) must be constructed for each run.
//
// The producer and each consumer execute in their own goroutines and share no
// mutable state beyond the queue. Whatever the items are, each is owned by
// exactly one stage at a time: the producer until emit returns, the queue
// while buffered, and a single consumer afterwards.
type Pipeline[T any] struct {
	config  Config
	produce ProduceFunc[T]
	consume ConsumeFunc[T]
	fault   FaultFunc[T]

	queue *Queue[T]
	state atomic.Int32

	produceCancel context.CancelFunc
	consumeCancel context.CancelFunc
	timeoutCancel context.CancelFunc
	stopOnce      sync.Once

	producerDone chan struct{}
	done         chan struct{}

	outcomeMu sync.Mutex
	outcome   error

	produced atomic.Uint64
	consumed atomic.Uint64
	faulted  atomic.Uint64
	dropped  atomic.Uint64
}

// New creates a pipeline from the given configuration, produce function, and
// consume function. Panics on configuration misuse (capacity or consumer
// count below one, unrecognized policy, negative timeout) and on nil
// functions; these are contract violations, not runtime conditions.
func New[T any](config Config, produce ProduceFunc[T], consume ConsumeFunc[T], opts ...Option[T]) *Pipeline[T] {
	config.validate()
	if produce == nil {
		panic("produce function must be non-nil")
	}
	if consume == nil {
		panic("consume function must be non-nil")
	}
	p := &Pipeline[T]{
		config:       config,
		produce:      produce,
		consume:      consume,
		queue:        NewQueue[T](config.Capacity),
		producerDone: make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the producer and consumer goroutines and returns
// immediately. The context governs the run: canceling it (or expiry of the
// configured timeout, which is layered onto the same context) triggers
// shutdown under the configured policy and makes the context's error the
// pipeline outcome.
//
// Panics if called more than once; a pipeline is single-run.
func (p *Pipeline[T]) Start(ctx context.Context) {
	if !p.state.CompareAndSwap(int32(Created), int32(Running)) {
		panic("pipeline already started")
	}

	if p.config.Timeout > 0 {
		ctx, p.timeoutCancel = context.WithTimeout(ctx, p.config.Timeout)
	}

	produceCtx, produceCancel := context.WithCancel(ctx)
	p.produceCancel = produceCancel

	// Consumers must outlive external cancellation under the Drain policy, so
	// their context is detached from the caller's. Only a Discard shutdown
	// cancels it.
	consumeCtx, consumeCancel := context.WithCancel(context.WithoutCancel(ctx))
	p.consumeCancel = consumeCancel

	var consumers sync.WaitGroup
	for range p.config.Consumers {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			p.runConsumer(consumeCtx)
		}()
	}
	go p.runProducer(produceCtx)

	// Route external cancellation and deadline expiry into the shutdown path.
	// Calling shutdown after the run has already finished is harmless.
	go func() {
		select {
		case <-ctx.Done():
			p.shutdown()
		case <-p.done:
		}
	}()

	// Controller: the producer finishing (for any reason) begins shutdown;
	// once the consumers are gone the pipeline is stopped and the outcome is
	// final. The governing context's error is read before our own cleanup
	// cancels anything, so a canceled or timed-out run always reports it.
	go func() {
		<-p.producerDone
		p.state.CompareAndSwap(int32(Running), int32(ShuttingDown))
		consumers.Wait()
		if err := ctx.Err(); err != nil {
			p.setOutcome(err)
		}
		p.state.Store(int32(Stopped))
		close(p.done)
		produceCancel()
		consumeCancel()
		if p.timeoutCancel != nil {
			p.timeoutCancel()
		}
	}()
}

// Stop requests an orderly shutdown under the configured policy: with [Drain]
// the producer stops and consumers finish every buffered item, with [Discard]
// buffered items are dropped and consumers stop immediately. Stop returns
// without waiting; use [Pipeline.Wait] to observe completion. Stop is
// idempotent and does not by itself make the outcome an error.
//
// Panics if the pipeline has not been started.
func (p *Pipeline[T]) Stop() {
	if PipelineState(p.state.Load()) == Created {
		panic("pipeline not started")
	}
	p.shutdown()
}

func (p *Pipeline[T]) shutdown() {
	p.stopOnce.Do(func() {
		p.state.CompareAndSwap(int32(Running), int32(ShuttingDown))
		p.produceCancel()
		if p.config.Policy == Discard {
			if n := p.queue.Discard(); n > 0 {
				p.dropped.Add(uint64(n))
			}
			p.consumeCancel()
		}
	})
}

// Wait blocks until the pipeline reaches [Stopped] and returns the run's
// outcome: nil for a clean run, the canceling context's error for a canceled
// or timed-out run, or the producer's error if production failed. Per-item
// consumer faults are never part of the outcome; they are reported through
// the fault handler as they happen.
//
// The context passed to Wait bounds only the wait itself. If it is canceled
// first, Wait returns its error while the pipeline continues shutting down in
// the background.
//
// Panics if the pipeline has not been started.
func (p *Pipeline[T]) Wait(ctx context.Context) error {
	if PipelineState(p.state.Load()) == Created {
		panic("pipeline not started")
	}
	select {
	case <-p.done:
		return p.outcomeErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the pipeline and blocks until it stops, returning the outcome.
// It is equivalent to [Pipeline.Start] followed by an unbounded wait.
func (p *Pipeline[T]) Run(ctx context.Context) error {
	p.Start(ctx)
	<-p.done
	return p.outcomeErr()
}

// State returns the pipeline's current lifecycle state.
func (p *Pipeline[T]) State() PipelineState {
	return PipelineState(p.state.Load())
}

func (p *Pipeline[T]) setOutcome(err error) {
	p.outcomeMu.Lock()
	if p.outcome == nil {
		p.outcome = err
	}
	p.outcomeMu.Unlock()
}

func (p *Pipeline[T]) outcomeErr() error {
	p.outcomeMu.Lock()
	defer p.outcomeMu.Unlock()
	return p.outcome
}
