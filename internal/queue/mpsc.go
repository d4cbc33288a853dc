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

// Package queue provides the lock-free, allocation-light FIFO primitives
// used to back the actor runtime's mailbox queues.
package queue

import (
	"sync"
	"sync/atomic"
)

type node[T any] struct {
	next atomic.Pointer[node[T]]
	val  T
}

// pools are keyed by element type at the call site via sync.Pool's New
// closure; each MpscQueue[T] owns its own pool so nodes of different T never
// mix.

// MpscQueue is a multi-producer, single-consumer, lock-free FIFO queue.
// Many goroutines may call Push concurrently; exactly one goroutine may call
// Pop at a time. Nodes are recycled through a sync.Pool to keep steady-state
// operation allocation-free.
type MpscQueue[T any] struct {
	pool  sync.Pool
	head  atomic.Pointer[node[T]] // consumer-owned
	_pad1 [64]byte
	tail  atomic.Pointer[node[T]] // producer-owned
	_pad2 [64]byte
}

// NewMpscQueue creates an empty MpscQueue.
func NewMpscQueue[T any]() *MpscQueue[T] {
	q := &MpscQueue[T]{
		pool: sync.Pool{New: func() any { return new(node[T]) }},
	}
	dummy := q.pool.Get().(*node[T])
	dummy.next.Store(nil)
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push appends val to the tail of the queue. Safe for concurrent callers.
func (q *MpscQueue[T]) Push(val T) {
	n := q.pool.Get().(*node[T])
	n.val = val
	n.next.Store(nil)
	prev := q.tail.Swap(n)
	prev.next.Store(n)
}

// Pop removes and returns the value at the head of the queue. The second
// return value is false if the queue was empty. Must be called by a single
// consumer goroutine at a time.
func (q *MpscQueue[T]) Pop() (T, bool) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		var zero T
		return zero, false
	}
	q.head.Store(next)
	val := next.val
	var zero T
	next.val = zero
	head.next.Store(nil)
	q.pool.Put(head)
	return val, true
}

// IsEmpty reports whether the queue currently holds no elements. It is an
// advisory, O(1) snapshot: it may observe empty momentarily between a
// producer's tail swap and its link store, but it never reports non-empty
// when nothing has been linked yet.
func (q *MpscQueue[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Len performs an O(n) traversal from head to tail and returns a best-effort
// snapshot count. Intended for diagnostics, not the hot path.
func (q *MpscQueue[T]) Len() int64 {
	var n int64
	cur := q.head.Load().next.Load()
	for cur != nil {
		n++
		cur = cur.next.Load()
	}
	return n
}
