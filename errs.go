// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package flume

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrQueueCompleted is returned by [Queue.Enqueue] and [Queue.TryEnqueue] when
// completion has already been declared. Producing after [Queue.Complete] is a
// contract violation; callers should treat this error as fatal to the producer
// rather than retrying.
const ErrQueueCompleted = constError("queue completed")

// ErrWouldBlock is returned by [Queue.TryEnqueue] when the queue is full and by
// [Queue.TryDequeue] when the queue is empty but still open. It is a control
// flow signal, not a failure: the blocking forms of the same operations would
// have waited instead.
const ErrWouldBlock = constError("operation would block")

// ErrProducePanicked is the pipeline outcome when a [ProduceFunc] panics. The
// recovered value is attached via error wrapping.
const ErrProducePanicked = constError("produce panicked")

// ErrConsumePanicked marks a per-item fault caused by a [ConsumeFunc] panic.
// The recovered value is attached via error wrapping. Like any other per-item
// fault it is reported to the pipeline's fault handler and does not stop the
// consumer loop.
const ErrConsumePanicked = constError("consume panicked")
