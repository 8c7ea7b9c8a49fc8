// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Priority selects which of the two outbound queue classes a send is
// enqueued to (spec §5: "two priority classes (high/low)").
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityLow
)

// SendQueue is the per-server outbound queue: two FIFO priority classes
// drained under a shared anti-flood rate limit. High drains fully before
// low is considered whenever both are nonempty, per spec §5 ordering.
//
// Grounded on the teacher's single-goroutine send-loop shape (client.go's
// now-deleted send loop) generalized to explicit priority classes, with
// golang.org/x/time/rate supplying the anti-flood limiter the teacher
// lacked.
type SendQueue struct {
	mu       sync.Mutex
	high     []string
	low      []string
	capacity int
	limiter  *rate.Limiter
}

// NewSendQueue returns a SendQueue capped at capacity total queued frames
// (0 means unbounded), draining at rate events per second with the given
// burst.
func NewSendQueue(capacity int, eventsPerSec float64, burst int) *SendQueue {
	return &SendQueue{
		capacity: capacity,
		limiter:  rate.NewLimiter(rate.Limit(eventsPerSec), burst),
	}
}

// Enqueue adds line to the given priority class, returning ErrQueueFull
// if capacity is set and already reached.
func (q *SendQueue) Enqueue(p Priority, line string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.capacity > 0 && len(q.high)+len(q.low) >= q.capacity {
		return ErrQueueFull
	}

	switch p {
	case PriorityHigh:
		q.high = append(q.high, line)
	default:
		q.low = append(q.low, line)
	}
	return nil
}

// Len returns the total number of frames currently queued.
func (q *SendQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.high) + len(q.low)
}

// pop removes and returns the next frame to send, draining high before
// low, or ok=false if both are empty.
func (q *SendQueue) pop() (line string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.high) > 0 {
		line, q.high = q.high[0], q.high[1:]
		return line, true
	}
	if len(q.low) > 0 {
		line, q.low = q.low[0], q.low[1:]
		return line, true
	}
	return "", false
}

// Drop clears both priority classes, used when the connection is torn
// down (spec §5: "the whole queue is dropped on disconnect").
func (q *SendQueue) Drop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.high = nil
	q.low = nil
}

// Next blocks, respecting the anti-flood limiter, until a frame is ready
// to send, or returns ok=false immediately if the queue is empty.
//
// The limiter is only consulted when a frame is actually available, so
// an idle queue never accrues a reservation debt.
func (q *SendQueue) Next() (line string, ok bool) {
	line, ok = q.pop()
	if !ok {
		return "", false
	}
	_ = q.limiter.Wait(context.Background())
	return line, true
}
