// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package sim contains a discrete-event model of a bounded producer/consumer
// pipeline. Tests use it to predict the wall-clock duration of a run from
// first principles and then check that the real pipeline lands inside the
// predicted envelope.
package sim

import (
	"cmp"
	"time"

	"github.com/addrummond/heap"
)

// Plan describes one simulated pipeline run. Production and consumption times
// are modeled as constants per item; jitter is accounted for by the tolerance
// the caller applies to the estimate.
type Plan struct {
	ItemCount       int
	ProduceInterval time.Duration
	ConsumeDuration time.Duration
	Consumers       int
	Capacity        int
}

type event struct {
	Time time.Duration
	Func func(now time.Duration)
}

func (a *event) Cmp(b *event) int {
	return cmp.Compare(a.Time, b.Time)
}

// Estimate simulates the plan and returns the predicted overall duration: the
// time at which the last item finishes processing. The model reproduces the
// pipeline's blocking rules exactly: the producer stalls once the queue holds
// Capacity items and every consumer is busy, and consumers stall when the
// queue is empty.
func Estimate(plan Plan) time.Duration {
	if plan.ItemCount == 0 {
		return 0
	}

	var events heap.Heap[event, heap.Min]
	schedule := func(at time.Duration, f func(now time.Duration)) {
		heap.PushOrderable(&events, event{Time: at, Func: f})
	}

	var (
		produced        int
		queued          int
		producerBlocked bool
		idleConsumers   = plan.Consumers
		finish          time.Duration
	)

	var startProduce func(now time.Duration)
	var consumerDone func(now time.Duration)

	// dispatch hands one available item to an idle consumer.
	dispatch := func(now time.Duration) {
		idleConsumers--
		schedule(now+plan.ConsumeDuration, consumerDone)
	}

	// itemReady models the producer finishing generation of one item and
	// calling emit.
	itemReady := func(now time.Duration) {
		produced++
		switch {
		case idleConsumers > 0 && queued == 0:
			// A consumer is already waiting on the empty queue; the item
			// passes straight through the buffer.
			dispatch(now)
			startProduce(now)
		case queued < plan.Capacity:
			queued++
			startProduce(now)
		default:
			// Backpressure: emit blocks until a consumer makes room.
			producerBlocked = true
		}
	}

	startProduce = func(now time.Duration) {
		if produced < plan.ItemCount {
			schedule(now+plan.ProduceInterval, itemReady)
		}
	}

	consumerDone = func(now time.Duration) {
		finish = now
		idleConsumers++
		if queued > 0 {
			queued--
			dispatch(now)
			if producerBlocked {
				// The blocked emit completes into the freed slot and the
				// producer resumes.
				producerBlocked = false
				queued++
				startProduce(now)
			}
		}
	}

	startProduce(0)
	for {
		e, ok := heap.PopOrderable(&events)
		if !ok {
			break
		}
		e.Func(e.Time)
	}

	return finish
}
