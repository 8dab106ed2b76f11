// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume

// Stats is a point-in-time snapshot of a pipeline's counters. Counts are
// monotonic within a run and stable once the pipeline reaches [Stopped].
type Stats struct {
	// Produced is the number of items successfully emitted into the queue.
	Produced uint64

	// Consumed is the number of items processed without a fault.
	Consumed uint64

	// Faulted is the number of items whose processing failed. Faulted items
	// were delivered and counted exactly once, just like consumed ones.
	Faulted uint64

	// Dropped is the number of buffered items discarded by a [Discard]
	// shutdown. Always zero under the [Drain] policy.
	Dropped uint64

	// PeakQueueLen is the highest queue occupancy observed. Never exceeds the
	// configured capacity.
	PeakQueueLen int
}

// Stats returns a snapshot of the pipeline's counters. Safe to call from any
// goroutine at any point in the lifecycle, including from fault handlers.
func (p *Pipeline[T]) Stats() Stats {
	return Stats{
		Produced:     p.produced.Load(),
		Consumed:     p.consumed.Load(),
		Faulted:      p.faulted.Load(),
		Dropped:      p.dropped.Load(),
		PeakQueueLen: p.queue.peakLen(),
	}
}
