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
	"errors"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/nullprotocol/windmill/log"
)

// MailboxProducer builds a fresh pair of queues for a newly spawned actor's
// Mailbox. The default produces two UnboundedMailboxQueue instances.
type MailboxProducer func() (systemQ, userQ MailboxQueue)

// DefaultMailboxProducer is the MailboxProducer used when Props does not
// override one: an unbounded system queue and an unbounded user queue.
func DefaultMailboxProducer() (MailboxQueue, MailboxQueue) {
	return NewUnboundedMailboxQueue(), NewUnboundedMailboxQueue()
}

// Option configures a Props at construction.
type Option interface {
	Apply(p *Props)
}

// OptionFunc adapts a plain function to the Option interface.
type OptionFunc func(p *Props)

func (f OptionFunc) Apply(p *Props) { f(p) }

// WithMailboxProducer overrides the mailbox queue pair a spawned actor
// gets.
func WithMailboxProducer(mp MailboxProducer) Option {
	return OptionFunc(func(p *Props) { p.mailboxProducer = mp })
}

// WithDispatcher overrides the dispatcher a spawned actor's mailbox is
// bound to.
func WithDispatcher(d Dispatcher) Option {
	return OptionFunc(func(p *Props) { p.dispatcher = d })
}

// WithParent sets the non-owning parent PID reference a spawned actor's
// Context carries.
func WithParent(parent *PID) Option {
	return OptionFunc(func(p *Props) { p.parent = parent })
}

// WithMailboxStatistics attaches observers notified synchronously on every
// mailbox lifecycle event.
func WithMailboxStatistics(stats ...MailboxStatistics) Option {
	return OptionFunc(func(p *Props) { p.stats = append(p.stats, stats...) })
}

// WithLogger overrides the logger a spawned actor's Context uses.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(p *Props) { p.logger = logger })
}

// WithSpawnRetry bounds how many times the default spawner retries a
// transient registry-busy condition, and the backoff bounds between tries.
func WithSpawnRetry(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return OptionFunc(func(p *Props) {
		p.retryMax = maxRetries
		p.retryBaseDelay = baseDelay
		p.retryMaxDelay = maxDelay
	})
}

// Props carries everything needed to spawn an actor: the producer for its
// behavior, the mailbox queue producer, the dispatcher to bind, and the
// spawn-time options above.
type Props struct {
	producer        Producer
	mailboxProducer MailboxProducer
	dispatcher      Dispatcher
	parent          *PID
	stats           []MailboxStatistics
	logger          log.Logger
	sink            *DeadletterSink
	retryMax        int
	retryBaseDelay  time.Duration
	retryMaxDelay   time.Duration
}

// PropsFromProducer builds a Props around producer, applying opts over the
// defaults: no parent, no statistics, three spawn retries, and a nil
// mailbox producer/dispatcher/logger. A nil mailboxProducer, dispatcher, or
// logger is filled in by whoever runs the spawn — System.Spawn injects its
// own defaults; spawning through a bare Actor falls back to
// DefaultMailboxProducer, a synchronous dispatcher, and a discard logger.
func PropsFromProducer(producer Producer, opts ...Option) *Props {
	p := &Props{
		producer:       producer,
		retryMax:       3,
		retryBaseDelay: 10 * time.Millisecond,
		retryMaxDelay:  200 * time.Millisecond,
	}
	for _, o := range opts {
		o.Apply(p)
	}
	return p
}

// spawn executes the default spawner against registry under the given name:
//  1. build a fresh mailbox from the mailbox producer;
//  2. register a new LocalProcess wrapping it, retrying the insert a
//     bounded number of times with backoff only on the transient
//     ErrRegistryBusy condition — a permanent ErrNameAlreadyExists is never
//     retried and propagates immediately;
//  3. construct a Context bound to the producer and optional parent;
//  4. bind the Context as the mailbox's invoker and the Props' dispatcher;
//  5. post Started to the system queue;
//  6. call Mailbox.Start();
//  7. return the PID.
func spawn(registry *ProcessRegistry, name string, p *Props) (*PID, error) {
	if p.mailboxProducer == nil {
		p.mailboxProducer = DefaultMailboxProducer
	}
	if p.dispatcher == nil {
		p.dispatcher = NewSyncDispatcher(DefaultThroughput)
	}
	if p.logger == nil {
		p.logger = log.DiscardLogger
	}

	systemQ, userQ := p.mailboxProducer()
	mailbox := NewMailbox(name, systemQ, userQ, p.stats, p.logger)
	process := NewLocalProcess(mailbox, p.sink)

	var pid *PID
	retrier := retry.NewRetrier(p.retryMax, p.retryBaseDelay, p.retryMaxDelay)
	err := retrier.Run(func() error {
		var registerErr error
		pid, registerErr = registry.TryAdd(name, process)
		if registerErr != nil {
			if errors.Is(registerErr, ErrRegistryBusy) {
				return registerErr
			}
			return retry.Stop(registerErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx := newContext(pid, p.parent, p.producer, p.logger, p.sink)
	mailbox.RegisterHandlers(ctx, p.dispatcher)
	mailbox.PostSystemMessage(MessageStarted)
	mailbox.Start()
	return pid, nil
}
