// MIT License
//
// Copyright (c) 2026 The Windmill Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/nullprotocol/windmill/internal/queue"
)

// MailboxQueue is an ordered sequence of Messages with FIFO pop order among
// messages pushed by a single producer. Concurrent pushes from multiple
// producers interleave but never tear a message.
//
// Implementations must be safe for many concurrent Push callers. Pop is
// called by exactly one consumer: the owning Mailbox's drain routine.
type MailboxQueue interface {
	// Push transfers ownership of m into the queue. Safe for concurrent
	// callers.
	Push(m *Message)
	// Pop removes and returns the oldest remaining message, or nil if the
	// queue is empty. Must be called by a single consumer.
	Pop() *Message
	// HasMessages is an advisory non-empty check: it may false-negative under
	// concurrent push but never false-positive once the pushing goroutine has
	// observed the queue non-empty from its own perspective.
	HasMessages() bool
	// Len reports a best-effort snapshot of the queue depth.
	Len() int64
	// Dispose releases resources and unblocks any waiters. Remaining
	// messages are dropped; static sentinels are never destroyed regardless.
	Dispose()
}

// UnboundedMailboxQueue is a lock-free, multi-producer single-consumer
// MailboxQueue with no capacity limit. Push never blocks and never fails.
type UnboundedMailboxQueue struct {
	q *queue.MpscQueue[*Message]
}

var _ MailboxQueue = (*UnboundedMailboxQueue)(nil)

// NewUnboundedMailboxQueue creates an empty UnboundedMailboxQueue.
func NewUnboundedMailboxQueue() *UnboundedMailboxQueue {
	return &UnboundedMailboxQueue{q: queue.NewMpscQueue[*Message]()}
}

func (u *UnboundedMailboxQueue) Push(m *Message) { u.q.Push(m) }

func (u *UnboundedMailboxQueue) Pop() *Message {
	v, ok := u.q.Pop()
	if !ok {
		return nil
	}
	return v
}

func (u *UnboundedMailboxQueue) HasMessages() bool { return !u.q.IsEmpty() }

func (u *UnboundedMailboxQueue) Len() int64 { return u.q.Len() }

// Dispose is a no-op: the unbounded queue holds no blocked waiters and its
// backing nodes are reclaimed by the garbage collector once dropped.
func (u *UnboundedMailboxQueue) Dispose() {}

// BoundedMailboxQueue is a fixed-capacity, blocking MailboxQueue backed by a
// ring buffer. Push blocks the calling producer once the ring is full, until
// space frees up or the queue is disposed; Pop never blocks and returns nil
// when the ring is empty.
//
// Use this variant when an actor needs to exert real backpressure on its
// senders instead of growing memory unboundedly.
type BoundedMailboxQueue struct {
	underlying *gods.RingBuffer
}

var _ MailboxQueue = (*BoundedMailboxQueue)(nil)

// NewBoundedMailboxQueue creates a BoundedMailboxQueue with the given
// positive capacity. It panics if capacity is not positive; callers that
// need the error form should validate before calling.
func NewBoundedMailboxQueue(capacity int) *BoundedMailboxQueue {
	if capacity <= 0 {
		panic(ErrInvalidCapacity)
	}
	return &BoundedMailboxQueue{underlying: gods.NewRingBuffer(uint64(capacity))}
}

// Push blocks until there is room in the ring buffer or the queue is
// disposed, in which case the message is dropped.
func (b *BoundedMailboxQueue) Push(m *Message) {
	_ = b.underlying.Put(m)
}

// Pop returns the oldest message, or nil immediately if the ring is
// currently empty. It never blocks the drain routine waiting for a
// producer: the mailbox's own scheduling latch is what decides whether a
// drain pass happens at all.
func (b *BoundedMailboxQueue) Pop() *Message {
	if b.underlying.Len() == 0 {
		return nil
	}
	item, err := b.underlying.Get()
	if err != nil {
		return nil
	}
	m, _ := item.(*Message)
	return m
}

func (b *BoundedMailboxQueue) HasMessages() bool { return b.underlying.Len() > 0 }

func (b *BoundedMailboxQueue) Len() int64 { return int64(b.underlying.Len()) }

// Dispose releases the ring buffer and unblocks every waiting Push.
func (b *BoundedMailboxQueue) Dispose() { b.underlying.Dispose() }
