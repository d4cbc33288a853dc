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

	"go.uber.org/atomic"

	"github.com/nullprotocol/windmill/address"
)

// Process is an addressable endpoint: either a LocalProcess that forwards
// to a mailbox, or a registry's DeadLetterProcess that drops everything.
type Process interface {
	// SendUserMessage delivers m to the user queue of the process behind
	// pid, or drops it if the process is dead / is the dead-letter sink.
	SendUserMessage(pid *PID, m *Message)
	// SendSystemMessage delivers m to the system queue, same drop rules.
	SendSystemMessage(pid *PID, m *Message)
	// Stop asks the process to wind down. A no-op on DeadLetterProcess.
	Stop(pid *PID)
	// IsDead reports whether the process can no longer accept deliveries.
	IsDead() bool
}

// LocalProcess wraps a Mailbox and exposes it as a Process. It carries an
// atomic is_dead flag: once stopped, every subsequent send is dropped and,
// if a dead-letter sink is installed, recorded as a Deadletter.
type LocalProcess struct {
	mailbox *Mailbox
	sink    *DeadletterSink
	isDead  atomic.Bool
}

var _ Process = (*LocalProcess)(nil)

// NewLocalProcess wraps mailbox as a LocalProcess. sink may be nil, in
// which case drops after death are silent.
func NewLocalProcess(mailbox *Mailbox, sink *DeadletterSink) *LocalProcess {
	return &LocalProcess{mailbox: mailbox, sink: sink}
}

// Mailbox returns the wrapped mailbox.
func (p *LocalProcess) Mailbox() *Mailbox { return p.mailbox }

func (p *LocalProcess) SendUserMessage(pid *PID, m *Message) {
	if p.isDead.Load() {
		p.recordDrop(pid, m, ErrDead)
		return
	}
	p.mailbox.PostUserMessage(m)
}

func (p *LocalProcess) SendSystemMessage(pid *PID, m *Message) {
	if p.isDead.Load() {
		p.recordDrop(pid, m, ErrDead)
		return
	}
	p.mailbox.PostSystemMessage(m)
}

// Stop sends a cooperative Stop system message, then marks the process
// dead. After this call, PIDs must resolve to dead-letter on next lookup.
func (p *LocalProcess) Stop(pid *PID) {
	p.mailbox.PostSystemMessage(MessageStop)
	p.isDead.Store(true)
}

func (p *LocalProcess) IsDead() bool { return p.isDead.Load() }

func (p *LocalProcess) recordDrop(pid *PID, m *Message, reason any) {
	if p.sink == nil {
		return
	}
	var receiver *address.Address
	if pid != nil {
		receiver = pid.Address()
	}
	p.sink.record(Deadletter{Receiver: receiver, Message: m, SentAt: time.Now(), Reason: reason})
}

// DeadLetterProcess is the per-registry process that every unresolved or
// dead PID of that registry ultimately routes through. It drops both message kinds; when a
// dead-letter sink has been installed it records each drop before
// discarding it, otherwise the zero-value behavior is a silent drop.
type DeadLetterProcess struct {
	sink *DeadletterSink
}

var _ Process = (*DeadLetterProcess)(nil)

// NewDeadLetterProcess creates a DeadLetterProcess. sink may be nil.
func NewDeadLetterProcess(sink *DeadletterSink) *DeadLetterProcess {
	return &DeadLetterProcess{sink: sink}
}

func (p *DeadLetterProcess) SendUserMessage(pid *PID, m *Message) { p.drop(pid, m) }

func (p *DeadLetterProcess) SendSystemMessage(pid *PID, m *Message) { p.drop(pid, m) }

func (p *DeadLetterProcess) Stop(pid *PID) {}

func (p *DeadLetterProcess) IsDead() bool { return true }

func (p *DeadLetterProcess) drop(pid *PID, m *Message) {
	if p.sink == nil {
		return
	}
	var receiver *address.Address
	if pid != nil {
		receiver = pid.Address()
	}
	p.sink.record(Deadletter{Receiver: receiver, Message: m, SentAt: time.Now(), Reason: "no such process"})
}
