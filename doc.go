// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package flume provides a bounded producer/consumer pipeline with
// backpressure. A producer feeds items into a fixed-capacity [Queue] while one
// or more competing consumers pull them back out. When consumers fall behind,
// the queue fills and the producer blocks, bounding memory use no matter how
// bursty the upstream rate is. When the producer declares completion, consumers
// drain whatever remains and the pipeline shuts down in an orderly fashion.
//
// The [Queue] is the only shared mutable state in a pipeline. Producer and
// consumers communicate exclusively through its Enqueue, Dequeue, and Complete
// operations, all of which are safe for concurrent use and all of which honor
// context cancellation: a blocked call wakes promptly and returns the context's
// error rather than hanging.
//
// [Pipeline] wires the pieces together. It launches the producer and a
// configurable number of consumers, guarantees that completion is declared
// exactly once regardless of how the producer exits, and drives shutdown
// according to a configurable policy: [Drain] processes every buffered item
// before stopping, while [Discard] drops buffered items and stops immediately.
// A single failing item never stops the pipeline; per-item failures are routed
// to a host-supplied fault handler and the consumer loop moves on.
package flume
