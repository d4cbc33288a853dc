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
	"sync/atomic"

	"github.com/nullprotocol/windmill/address"
)

// PID is an immutable value identifying an actor: (address, id), plus a
// non-owning, best-effort cached pointer to the Process it last resolved
// to. Equality is by (address, id). The cache is advisory and invalidated
// whenever the cached LocalProcess reports dead; concurrent Tell calls on
// the same PID value may race on the cache, which is safe because it is
// only ever used as a hint, re-resolved through the registry on a miss.
type PID struct {
	registry *ProcessRegistry
	id       string
	cached   atomic.Pointer[Process]
}

func newPID(registry *ProcessRegistry, id string) *PID {
	return &PID{registry: registry, id: id}
}

// ID returns the PID's bare identifier, e.g. "$3" or a caller-chosen name.
func (p *PID) ID() string { return p.id }

// Address returns the address of the system this PID belongs to.
func (p *PID) Address() *address.Address { return p.registry.Address() }

// Equals reports whether p and other designate the same (address, id).
func (p *PID) Equals(other *PID) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.id == other.id && p.Address().Equals(other.Address())
}

// resolve returns the live Process behind p, preferring the cached pointer
// when it is present and not a dead LocalProcess. On a cache miss (nil, or
// cached dead LocalProcess) it re-resolves through the registry; a live
// result is cached, while a dead one (an absent id, or a stopped
// LocalProcess still listed in the registry) clears the cache and resolves
// to the registry's DeadLetterProcess.
func (p *PID) resolve() Process {
	if cached := p.cached.Load(); cached != nil {
		proc := *cached
		if lp, ok := proc.(*LocalProcess); !ok || !lp.IsDead() {
			return proc
		}
	}
	proc := p.registry.Get(p.id)
	if proc.IsDead() {
		p.cached.Store(nil)
		return p.registry.DeadLetter()
	}
	p.cached.Store(&proc)
	return proc
}

// Tell sends payload to this PID as a user message. If resolution returns
// the dead-letter sink, the message is dropped (and recorded, if a sink is
// installed). Safe to call concurrently on distinct PID values; concurrent
// calls on the same PID value may race harmlessly on the cache.
func (p *PID) Tell(payload any) {
	p.resolve().SendUserMessage(p, NewMessage(payload))
}

// TellFrom sends payload to this PID as a user message tagged with sender
// as a reply hint, so the receiving actor's Context.Reply can answer
// without either side needing a correlation id. Used by Ask.
func (p *PID) TellFrom(payload any, sender *PID) {
	p.resolve().SendUserMessage(p, NewMessageFrom(payload, sender))
}

// tellSystem sends a system-queue message, used internally by Stop and by
// the spawner to deliver Started.
func (p *PID) tellSystem(m *Message) {
	p.resolve().SendSystemMessage(p, m)
}

// Stop asks the actor behind this PID to wind down cooperatively.
func (p *PID) Stop() {
	p.resolve().Stop(p)
}
