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

// DefaultThroughput is the soft limit on messages drained per scheduling
// pass when a Dispatcher does not override it.
const DefaultThroughput = 300

// Dispatcher arranges for a runnable to be executed exactly once, at some
// point after Schedule returns. Ordering between distinct Schedule calls is
// not guaranteed. A Dispatcher must not invoke runnable re-entrantly within
// the same logical invocation except where a synchronous variant explicitly
// does so.
type Dispatcher interface {
	// Schedule arranges for runnable to run exactly once.
	Schedule(runnable func())
	// Throughput returns the positive soft limit on messages drained per
	// scheduling pass; a fairness knob.
	Throughput() int
}

// SyncDispatcher runs every scheduled runnable inline, on the caller's
// goroutine. It is the default dispatcher: all scheduling happens on posting
// goroutines and the mailbox's Idle→Busy CAS is what preserves serialized
// delivery.
type SyncDispatcher struct {
	throughput int
}

var _ Dispatcher = (*SyncDispatcher)(nil)

// NewSyncDispatcher creates a SyncDispatcher with the given throughput. A
// non-positive throughput falls back to DefaultThroughput.
func NewSyncDispatcher(throughput int) *SyncDispatcher {
	if throughput <= 0 {
		throughput = DefaultThroughput
	}
	return &SyncDispatcher{throughput: throughput}
}

func (d *SyncDispatcher) Schedule(runnable func()) { runnable() }

func (d *SyncDispatcher) Throughput() int { return d.throughput }
