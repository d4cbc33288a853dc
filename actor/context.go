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

	"github.com/nullprotocol/windmill/log"
)

// ContextState is the lifecycle state of an actor's Context. The core
// implements only None→Alive (incarnation at construction); transitions
// from Alive are reserved for future extensions and are never exercised by
// the core's default paths.
type ContextState int

const (
	StateNone ContextState = iota
	StateAlive
	StateRestarting
	StateStopping
)

// Context is the per-actor state bound to a Mailbox as its MessageInvoker.
// It holds the current message being processed (non-empty only during
// invocation), an optional non-owning reference to a parent PID, the
// producer that incarnated the actor's behavior, and that behavior itself.
type Context struct {
	self     *PID
	parent   *PID
	producer Producer
	behavior IActor
	state    ContextState
	current  *Message
	logger   log.Logger
	sink     *DeadletterSink
}

var _ MessageInvoker = (*Context)(nil)

// newContext creates a Context bound to self, incarnates its behavior via
// producer, and transitions it to StateAlive. parent may be nil.
func newContext(self, parent *PID, producer Producer, logger log.Logger, sink *DeadletterSink) *Context {
	if logger == nil {
		logger = log.DiscardLogger
	}
	ctx := &Context{
		self:     self,
		parent:   parent,
		producer: producer,
		state:    StateNone,
		logger:   logger,
		sink:     sink,
	}
	ctx.behavior = producer()
	ctx.state = StateAlive
	return ctx
}

// Self returns the PID this Context is bound to.
func (c *Context) Self() *PID { return c.self }

// Parent returns the optional parent PID, or nil if this actor has none.
// The parent is resolved on demand through the registry; the Context never
// holds a pointer to the parent's Process.
func (c *Context) Parent() *PID { return c.parent }

// Message returns the message currently being invoked, or nil outside of an
// invocation.
func (c *Context) Message() *Message { return c.current }

// State returns the Context's lifecycle state.
func (c *Context) State() ContextState { return c.state }

// Logger returns the logger this actor was spawned with.
func (c *Context) Logger() log.Logger { return c.logger }

// Reply sends response back to the sender of the message currently being
// invoked. It is a no-op if there is no current message or its sender hint
// is unset, e.g. a message sent with Tell instead of TellFrom.
func (c *Context) Reply(response any) {
	if c.current == nil || c.current.Sender == nil {
		return
	}
	c.current.Sender.Tell(response)
}

// InvokeSystemMessage interprets a system queue signal. Started is promoted
// to a user-visible receive; every other signal is ignored here. The owning
// Mailbox forwards every system message, applying SuspendMailbox and
// ResumeMailbox itself first; Stop has no effect at this level.
func (c *Context) InvokeSystemMessage(m *Message) {
	if _, ok := m.Payload.(Started); ok {
		c.InvokeUserMessage(m)
	}
}

// InvokeUserMessage sets the current-message slot, runs the user receive
// behavior, and clears the slot on return. A panic from the behavior is
// recovered and forwarded to EscalateFailure; it does not propagate past
// this call.
func (c *Context) InvokeUserMessage(m *Message) {
	c.current = m
	defer func() {
		if r := recover(); r != nil {
			c.EscalateFailure(r, m)
		}
		c.current = nil
	}()
	c.behavior.Receive(c)
}

// EscalateFailure reports a panic or error raised by user code. The failure
// is always logged at error level. When a dead-letter sink has been wired
// into the owning System, it is also forwarded as a synthetic Deadletter
// with Reason set to the recovered value; otherwise it is absorbed after
// logging, matching the default-absorb behavior with no supervision tree.
func (c *Context) EscalateFailure(reason any, message *Message) {
	c.logger.Errorf("actor %s failed handling message: %v", c.self.ID(), reason)
	if c.sink == nil {
		return
	}
	c.sink.record(Deadletter{
		Sender:   nil,
		Receiver: c.self.Address(),
		Message:  message,
		SentAt:   time.Now(),
		Reason:   reason,
	})
}
