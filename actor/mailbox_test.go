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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingInvoker appends every user payload it sees, in invocation order,
// and counts system invocations separately. Safe because the mailbox
// guarantees at most one goroutine drains at a time.
type recordingInvoker struct {
	mu        sync.Mutex
	userSeen  []any
	sysSeen   []any
	escalated int
}

func (r *recordingInvoker) InvokeSystemMessage(m *Message) {
	r.mu.Lock()
	r.sysSeen = append(r.sysSeen, m.Payload)
	r.mu.Unlock()
}

func (r *recordingInvoker) InvokeUserMessage(m *Message) {
	r.mu.Lock()
	r.userSeen = append(r.userSeen, m.Payload)
	r.mu.Unlock()
}

func (r *recordingInvoker) EscalateFailure(reason any, message *Message) {
	r.mu.Lock()
	r.escalated++
	r.mu.Unlock()
}

func (r *recordingInvoker) userLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.userSeen)
}

func newTestMailbox(dispatcher Dispatcher) (*Mailbox, *recordingInvoker) {
	mb := NewMailbox("test-actor", NewUnboundedMailboxQueue(), NewUnboundedMailboxQueue(), nil, nil)
	inv := &recordingInvoker{}
	mb.RegisterHandlers(inv, dispatcher)
	return mb, inv
}

// stepDispatcher queues scheduled runnables instead of running them, so a
// test can drive drain passes one at a time and observe state between them.
type stepDispatcher struct {
	throughput int
	mu         sync.Mutex
	queued     []func()
}

func newStepDispatcher(throughput int) *stepDispatcher {
	return &stepDispatcher{throughput: throughput}
}

func (d *stepDispatcher) Schedule(runnable func()) {
	d.mu.Lock()
	d.queued = append(d.queued, runnable)
	d.mu.Unlock()
}

func (d *stepDispatcher) Throughput() int { return d.throughput }

// step runs the next queued runnable, if any, and reports whether it found
// one to run.
func (d *stepDispatcher) step() bool {
	d.mu.Lock()
	if len(d.queued) == 0 {
		d.mu.Unlock()
		return false
	}
	next := d.queued[0]
	d.queued = d.queued[1:]
	d.mu.Unlock()
	next()
	return true
}

func TestMailbox_FreshIsIdleAndNotSuspended(t *testing.T) {
	mb, _ := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	require.False(t, mb.IsSuspended())
	require.Equal(t, int32(statusIdle), mb.status.Load())
}

func TestMailbox_FIFOWithinUserQueue(t *testing.T) {
	mb, inv := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	for i := 0; i < 100; i++ {
		mb.PostUserMessage(NewMessage(i))
	}
	require.Len(t, inv.userSeen, 100)
	for i := 0; i < 100; i++ {
		require.Equal(t, i, inv.userSeen[i])
	}
}

// TestMailbox_SystemPreemptsUser drives scenario 3: ten user messages are
// queued, then a SuspendMailbox, then one more user message, then a
// ResumeMailbox — and with a throughput of 1, no user message is invoked
// until the ResumeMailbox has been handled.
func TestMailbox_SystemPreemptsUser(t *testing.T) {
	dispatcher := newStepDispatcher(1)
	mb, inv := newTestMailbox(dispatcher)

	for i := 0; i < 10; i++ {
		mb.PostUserMessage(NewMessage(i))
	}
	require.Equal(t, 0, inv.userLen(), "nothing may be processed before the first step")

	mb.PostSystemMessage(MessageSuspend)
	require.True(t, dispatcher.step(), "suspend pass")
	require.True(t, mb.IsSuspended())
	require.Equal(t, 0, inv.userLen())

	mb.PostUserMessage(NewMessage(999))
	require.True(t, dispatcher.step(), "a post schedules a pass even while suspended; that pass delivers no user message")
	require.False(t, dispatcher.step(), "a suspended mailbox with no system work pending does not reschedule itself")
	require.Equal(t, 0, inv.userLen())

	mb.PostSystemMessage(MessageResume)
	require.True(t, dispatcher.step(), "resume pass")
	require.False(t, mb.IsSuspended())
	require.Equal(t, 0, inv.userLen(), "resume being handled does not itself drain a user message")

	for dispatcher.step() {
	}
	require.Len(t, inv.userSeen, 11)
	for i := 0; i < 10; i++ {
		require.Equal(t, i, inv.userSeen[i])
	}
	require.Equal(t, 999, inv.userSeen[10])
}

// TestMailbox_ThroughputCapTriggersReschedule drives scenario 6: with
// throughput 3 and 10 already-queued user messages, draining requires
// multiple scheduling passes, and every message is eventually delivered in
// order.
func TestMailbox_ThroughputCapTriggersReschedule(t *testing.T) {
	mb, inv := newTestMailbox(NewSyncDispatcher(3))

	for i := 0; i < 10; i++ {
		mb.userQ.Push(NewMessage(i))
	}
	mb.schedule()

	require.Len(t, inv.userSeen, 10)
	for i := 0; i < 10; i++ {
		require.Equal(t, i, inv.userSeen[i])
	}
}

func TestMailbox_IdleBusyLatchAdmitsOneDrainAtATime(t *testing.T) {
	var concurrent int32
	var maxConcurrent int32

	blockingDispatcher := DispatcherFunc(func(runnable func()) {
		n := atomic.AddInt32(&concurrent, 1)
		for {
			old := atomic.LoadInt32(&maxConcurrent)
			if n <= old || atomic.CompareAndSwapInt32(&maxConcurrent, old, n) {
				break
			}
		}
		runnable()
		atomic.AddInt32(&concurrent, -1)
	})

	mb, _ := newTestMailbox(blockingDispatcher)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mb.PostUserMessage(NewMessage(i))
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt32(&maxConcurrent), int32(1),
		"at most one drain runnable may execute per mailbox at any time")
}

// DispatcherFunc adapts a plain function to the Dispatcher interface for
// tests that need to observe or control scheduling directly.
type DispatcherFunc func(runnable func())

func (f DispatcherFunc) Schedule(runnable func()) { f(runnable) }

func (f DispatcherFunc) Throughput() int { return DefaultThroughput }

func TestMailbox_StartNotifiesStatistics(t *testing.T) {
	stat := &countingStats{}
	mb := NewMailbox("a", NewUnboundedMailboxQueue(), NewUnboundedMailboxQueue(), []MailboxStatistics{stat}, nil)
	mb.RegisterHandlers(&recordingInvoker{}, NewSyncDispatcher(DefaultThroughput))
	mb.Start()
	require.Equal(t, 1, stat.started)
}

func TestMailbox_NotifiesMailboxEmptyAfterDraining(t *testing.T) {
	stat := &countingStats{}
	mb := NewMailbox("a", NewUnboundedMailboxQueue(), NewUnboundedMailboxQueue(), []MailboxStatistics{stat}, nil)
	mb.RegisterHandlers(&recordingInvoker{}, NewSyncDispatcher(DefaultThroughput))
	mb.PostUserMessage(NewMessage("x"))
	require.Equal(t, 1, stat.emptied)
	require.Equal(t, 1, stat.received)
}

func TestMailbox_NotifiesMessagePostedOnEveryPush(t *testing.T) {
	stat := &countingStats{}
	mb := NewMailbox("a", NewUnboundedMailboxQueue(), NewUnboundedMailboxQueue(), []MailboxStatistics{stat}, nil)
	mb.RegisterHandlers(&recordingInvoker{}, NewSyncDispatcher(DefaultThroughput))

	mb.PostUserMessage(NewMessage("x"))
	mb.PostSystemMessage(MessageStarted)

	require.Equal(t, 2, stat.posted)
}

type countingStats struct {
	mu       sync.Mutex
	started  int
	posted   int
	received int
	emptied  int
}

func (c *countingStats) MailboxStarted(actorID string) {
	c.mu.Lock()
	c.started++
	c.mu.Unlock()
}

func (c *countingStats) MessagePosted(actorID string) {
	c.mu.Lock()
	c.posted++
	c.mu.Unlock()
}

func (c *countingStats) MessageReceived(actorID string) {
	c.mu.Lock()
	c.received++
	c.mu.Unlock()
}

func (c *countingStats) MailboxEmpty(actorID string) {
	c.mu.Lock()
	c.emptied++
	c.mu.Unlock()
}

func TestMailbox_EscalatesPanicAndKeepsServing(t *testing.T) {
	mb, inv := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	panicOnce := &panicOnceInvoker{recordingInvoker: inv}
	mb.RegisterHandlers(panicOnce, NewSyncDispatcher(DefaultThroughput))

	mb.PostUserMessage(NewMessage("boom"))
	require.Equal(t, 1, inv.escalated)

	mb.PostUserMessage(NewMessage("after"))
	require.Equal(t, []any{"after"}, inv.userSeen)
}

type panicOnceInvoker struct {
	*recordingInvoker
	tripped bool
}

func (p *panicOnceInvoker) InvokeUserMessage(m *Message) {
	if !p.tripped {
		p.tripped = true
		defer func() {
			if r := recover(); r != nil {
				p.EscalateFailure(r, m)
			}
		}()
		panic("boom")
	}
	p.recordingInvoker.InvokeUserMessage(m)
}

// TestMailbox_RecoversPanicFromInvokerThatDoesNotSelfRecover exercises the
// mailbox-level recovery net directly: unlike panicOnceInvoker above, this
// invoker panics without any defer/recover of its own. If the mailbox
// didn't recover on its behalf, the panic would escape run() entirely,
// status would never be stored back to Idle, and every later post to this
// mailbox would be silently stranded at the Busy latch.
func TestMailbox_RecoversPanicFromInvokerThatDoesNotSelfRecover(t *testing.T) {
	inv := &recordingInvoker{}
	bareInv := &barePanicInvoker{recordingInvoker: inv}
	mb, _ := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	mb.RegisterHandlers(bareInv, NewSyncDispatcher(DefaultThroughput))

	mb.PostUserMessage(NewMessage("boom"))
	require.Equal(t, 1, inv.escalated)
	require.Equal(t, int32(statusIdle), mb.status.Load())

	mb.PostUserMessage(NewMessage("after"))
	require.Equal(t, []any{"after"}, inv.userSeen)
}

// barePanicInvoker panics on its first InvokeUserMessage call with no
// recover of its own, relying entirely on the mailbox's drain routine to
// catch it and call EscalateFailure.
type barePanicInvoker struct {
	*recordingInvoker
	tripped bool
}

func (b *barePanicInvoker) InvokeUserMessage(m *Message) {
	if !b.tripped {
		b.tripped = true
		panic("boom, unrecovered")
	}
	b.recordingInvoker.InvokeUserMessage(m)
}

func TestMailbox_DisposeReleasesQueues(t *testing.T) {
	mb, _ := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	require.NotPanics(t, func() { mb.Dispose() })
}
