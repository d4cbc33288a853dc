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
	"go.uber.org/atomic"

	"github.com/nullprotocol/windmill/log"
)

// mailboxStatus is the Mailbox's scheduling latch. At most one drain
// routine is concurrently executing per mailbox; the CAS below is the sole
// admission gate onto the dispatcher.
type mailboxStatus int32

const (
	statusIdle mailboxStatus = iota
	statusBusy
)

// Mailbox is the two-queue scheduler at the heart of the runtime: a system
// queue and a user queue, an invoker, a dispatcher, an idle/busy latch, a
// suspend flag, and statistics observers. System messages preempt user
// messages at the granularity of one drain iteration; the mailbox serializes
// all invocations for its actor no matter how many goroutines post to it.
type Mailbox struct {
	actorID    string
	systemQ    MailboxQueue
	userQ      MailboxQueue
	invoker    MessageInvoker
	dispatcher Dispatcher
	status     atomic.Int32
	suspended  bool // single-writer: only the drain routine touches this
	stats      []MailboxStatistics
	logger     log.Logger
}

// NewMailbox creates a freshly constructed Mailbox: Idle, not suspended, no
// invoker or dispatcher bound. Call RegisterHandlers before the first post.
func NewMailbox(actorID string, systemQ, userQ MailboxQueue, stats []MailboxStatistics, logger log.Logger) *Mailbox {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Mailbox{
		actorID: actorID,
		systemQ: systemQ,
		userQ:   userQ,
		stats:   stats,
		logger:  logger,
	}
}

// RegisterHandlers binds the invoker and dispatcher this mailbox drains
// into. Must be called once, before the first post; re-binding afterward is
// undefined.
func (m *Mailbox) RegisterHandlers(invoker MessageInvoker, dispatcher Dispatcher) {
	m.invoker = invoker
	m.dispatcher = dispatcher
}

// Start notifies statistics observers that this mailbox has begun serving
// its actor. Not required to be idempotent.
func (m *Mailbox) Start() {
	for _, s := range m.stats {
		s.MailboxStarted(m.actorID)
	}
}

// PostSystemMessage pushes m onto the system queue, notifies statistics,
// then schedules a drain.
func (m *Mailbox) PostSystemMessage(msg *Message) {
	m.systemQ.Push(msg)
	m.notifyPosted()
	m.schedule()
}

// PostUserMessage pushes m onto the user queue, notifies statistics, then
// schedules a drain.
func (m *Mailbox) PostUserMessage(msg *Message) {
	m.userQ.Push(msg)
	m.notifyPosted()
	m.schedule()
}

// schedule is the sole admission gate onto the dispatcher: it flips the
// latch from Idle to Busy and, only on success, hands the drain routine to
// the dispatcher. While Busy, concurrent posters push freely but do not
// reschedule; the running drain observes their pushes on its own.
func (m *Mailbox) schedule() {
	if m.status.CompareAndSwap(int32(statusIdle), int32(statusBusy)) {
		m.dispatcher.Schedule(m.run)
	}
}

// run drains up to Throughput() messages, then flips back to Idle and
// re-checks both queues before returning. The re-check closes the race
// between a poster observing Busy (and skipping schedule) and the drain
// observing an empty queue before that poster's push has landed: if either
// queue still has work, run reschedules itself instead of returning with
// work stranded.
func (m *Mailbox) run() {
	m.processMessages()
	m.status.Store(int32(statusIdle))
	if m.systemQ.HasMessages() || (!m.suspended && m.userQ.HasMessages()) {
		m.schedule()
		return
	}
	for _, s := range m.stats {
		s.MailboxEmpty(m.actorID)
	}
}

// processMessages drains at most dispatcher.Throughput() messages, giving
// strict priority to the system queue on every iteration. A panic from the
// invoker terminates the pass early; run still transitions to Idle and
// reschedules if work remains.
//
// Recovery happens here, at the mailbox level, rather than being left to
// each MessageInvoker implementation: MessageInvoker is a pluggable
// interface, and an invoker that panics without recovering internally must
// not be able to wedge this mailbox's Idle/Busy latch at Busy forever.
func (m *Mailbox) processMessages() {
	throughput := m.dispatcher.Throughput()
	for i := 0; i < throughput; i++ {
		if sysMsg := m.systemQ.Pop(); sysMsg != nil {
			m.applySystemControl(sysMsg)
			if !m.invokeRecovering(sysMsg, m.invoker.InvokeSystemMessage) {
				return
			}
			m.notifyReceived()
			continue
		}
		if m.suspended {
			return
		}
		userMsg := m.userQ.Pop()
		if userMsg == nil {
			return
		}
		if !m.invokeRecovering(userMsg, m.invoker.InvokeUserMessage) {
			return
		}
		m.notifyReceived()
	}
}

// invokeRecovering calls invoke(msg), recovering any panic that escapes it
// and forwarding the recovered value to invoker.EscalateFailure along with
// the in-flight message. Returns false if a panic was recovered, signaling
// processMessages to terminate the pass.
func (m *Mailbox) invokeRecovering(msg *Message, invoke func(*Message)) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.invoker.EscalateFailure(r, msg)
			ok = false
		}
	}()
	invoke(msg)
	return true
}

// applySystemControl updates the suspend latch for SuspendMailbox and
// ResumeMailbox before the signal is forwarded to the invoker. Only the
// drain routine ever writes suspended, so no synchronization is needed.
func (m *Mailbox) applySystemControl(msg *Message) {
	switch msg.Payload.(type) {
	case SuspendMailbox:
		m.suspended = true
	case ResumeMailbox:
		m.suspended = false
	}
}

func (m *Mailbox) notifyPosted() {
	for _, s := range m.stats {
		s.MessagePosted(m.actorID)
	}
}

func (m *Mailbox) notifyReceived() {
	for _, s := range m.stats {
		s.MessageReceived(m.actorID)
	}
}

// IsSuspended reports the current suspend state. Only meaningful when
// called from within the drain routine itself; from any other goroutine it
// is a racy snapshot and exists only for tests.
func (m *Mailbox) IsSuspended() bool { return m.suspended }

// Dispose releases the mailbox's queues. Any messages still queued are
// dropped; static sentinels are never destroyed regardless.
func (m *Mailbox) Dispose() {
	m.systemQ.Dispose()
	m.userQ.Dispose()
}
