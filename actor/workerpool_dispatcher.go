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
	"time"

	"github.com/nullprotocol/windmill/internal/workerpool"
)

// WorkerPoolDispatcher hands each scheduled runnable to an idle worker
// goroutine drawn from a small shard-per-goroutine pool, instead of running
// it inline. The mailbox core does not branch on which Dispatcher is bound;
// it only ever calls Schedule and Throughput.
type WorkerPoolDispatcher struct {
	pool       *workerpool.WorkerPool
	throughput int
}

var _ Dispatcher = (*WorkerPoolDispatcher)(nil)

// NewWorkerPoolDispatcher creates and starts a WorkerPoolDispatcher with
// numShards shards and the given per-schedule throughput. A non-positive
// throughput falls back to DefaultThroughput.
func NewWorkerPoolDispatcher(numShards, throughput int) *WorkerPoolDispatcher {
	if throughput <= 0 {
		throughput = DefaultThroughput
	}
	pool := workerpool.New(
		workerpool.WithNumShards(numShards),
		workerpool.WithPassivateAfter(30*time.Second),
	)
	pool.Start()
	return &WorkerPoolDispatcher{pool: pool, throughput: throughput}
}

func (d *WorkerPoolDispatcher) Schedule(runnable func()) { d.pool.Submit(runnable) }

func (d *WorkerPoolDispatcher) Throughput() int { return d.throughput }

// Stop shuts the underlying worker pool down. Workers mid-task finish before
// exiting; no new work is accepted afterward.
func (d *WorkerPoolDispatcher) Stop() { d.pool.Stop() }
