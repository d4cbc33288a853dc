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

// Ownership describes how a Message's lifetime is managed once it has been
// delivered.
type Ownership int

const (
	// Owned messages are exclusively held by whichever queue currently
	// contains them. They are not reused after delivery.
	Owned Ownership = iota
	// StaticSentinel messages are interned, shared values that are never
	// destroyed and may be delivered arbitrarily many times (Started, Stop,
	// SuspendMailbox, ResumeMailbox).
	StaticSentinel
)

// Message is the envelope carried between actors. Payload holds the
// caller-supplied value; Ownership records whether the envelope is a
// one-shot owned value or a permanent, interned sentinel.
// Sender is an out-of-band, core-agnostic hint: the core never reads it
// except to carry it through post/pop, so a reply helper built purely on
// top of Tell (see Ask) can use it without changing any mailbox invariant.
type Message struct {
	Payload   any
	Ownership Ownership
	Sender    *PID
}

// NewMessage wraps payload in an owned Message envelope with no sender
// hint.
func NewMessage(payload any) *Message {
	return &Message{Payload: payload, Ownership: Owned}
}

// NewMessageFrom wraps payload in an owned Message envelope tagged with
// sender as a reply hint.
func NewMessageFrom(payload any, sender *PID) *Message {
	return &Message{Payload: payload, Ownership: Owned, Sender: sender}
}

// NewSentinel wraps payload as a StaticSentinel Message. Sentinel values are
// built once, at package init time, and reused for every mailbox; nothing in
// this package ever mutates or frees one.
func NewSentinel(payload any) *Message {
	return &Message{Payload: payload, Ownership: StaticSentinel}
}

// IsSentinel reports whether m carries the StaticSentinel ownership mode.
func (m *Message) IsSentinel() bool {
	return m != nil && m.Ownership == StaticSentinel
}

// System signal payloads. These are the only values ever wrapped with
// NewSentinel by this package; user code may define its own message payload
// types freely, which are always Owned.
type (
	// Started is delivered once per actor incarnation on the system queue and
	// promoted to a user-visible receive.
	Started struct{}
	// Stop asks an actor's mailbox to wind down; cooperative, not forceful.
	Stop struct{}
	// SuspendMailbox halts user-message delivery until ResumeMailbox.
	SuspendMailbox struct{}
	// ResumeMailbox resumes user-message delivery after SuspendMailbox.
	ResumeMailbox struct{}
)

var (
	// MessageStarted is the interned Started sentinel.
	MessageStarted = NewSentinel(Started{})
	// MessageStop is the interned Stop sentinel.
	MessageStop = NewSentinel(Stop{})
	// MessageSuspend is the interned SuspendMailbox sentinel.
	MessageSuspend = NewSentinel(SuspendMailbox{})
	// MessageResume is the interned ResumeMailbox sentinel.
	MessageResume = NewSentinel(ResumeMailbox{})
)
