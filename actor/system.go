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
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/nullprotocol/windmill/log"
)

// SystemOption configures a System at construction.
type SystemOption interface {
	Apply(s *System)
}

// SystemOptionFunc adapts a plain function to the SystemOption interface.
type SystemOptionFunc func(s *System)

func (f SystemOptionFunc) Apply(s *System) { f(s) }

// WithSystemLogger overrides the System's logger, used as the default for
// every actor it spawns unless Props overrides it.
func WithSystemLogger(logger log.Logger) SystemOption {
	return SystemOptionFunc(func(s *System) { s.logger = logger })
}

// WithSystemDispatcher overrides the default Dispatcher injected into Props
// that don't set their own.
func WithSystemDispatcher(d Dispatcher) SystemOption {
	return SystemOptionFunc(func(s *System) { s.dispatcher = d })
}

// WithSystemMailboxProducer overrides the default MailboxProducer injected
// into Props that don't set their own.
func WithSystemMailboxProducer(mp MailboxProducer) SystemOption {
	return SystemOptionFunc(func(s *System) { s.mailboxProducer = mp })
}

// WithStatsCollector attaches a StatsCollector every spawned actor's
// mailbox reports to, and starts it alongside the System.
func WithStatsCollector(collector *StatsCollector, flushInterval time.Duration) SystemOption {
	return SystemOptionFunc(func(s *System) {
		s.stats = collector
		s.statsFlush = flushInterval
	})
}

// System bundles a ProcessRegistry, a default Dispatcher, a default
// MailboxProducer, a dead-letter sink and a Logger, and is the ordinary
// entry point for spawning and shutting down actors as a group. It
// introduces no actor-visible semantics beyond what Props/Actor already
// specify: Spawn and SpawnNamed are thin wrappers that inject the System's
// defaults into a Props the caller didn't fully configure.
type System struct {
	name            string
	registry        *ProcessRegistry
	actor           *Actor
	dispatcher      Dispatcher
	mailboxProducer MailboxProducer
	logger          log.Logger
	sink            *DeadletterSink
	stats           *StatsCollector
	statsFlush      time.Duration
	scheduler       *Scheduler
	schedulerOnce   sync.Once
}

// NewSystem creates a System named name with sensible defaults: a
// synchronous dispatcher, an unbounded mailbox producer, a discard logger,
// and a fresh dead-letter sink.
func NewSystem(name string, opts ...SystemOption) *System {
	sink := NewDeadletterSink()
	s := &System{
		name:            name,
		dispatcher:      NewSyncDispatcher(DefaultThroughput),
		mailboxProducer: DefaultMailboxProducer,
		logger:          log.DiscardLogger,
		sink:            sink,
	}
	for _, o := range opts {
		o.Apply(s)
	}
	s.registry = NewProcessRegistry(name, sink)
	s.actor = NewActor(s.registry)
	if s.stats != nil {
		s.stats.Start(context.Background(), s.statsFlush)
	}
	s.scheduler = NewScheduler(s.logger)
	return s
}

// Registry returns the System's ProcessRegistry.
func (s *System) Registry() *ProcessRegistry { return s.registry }

// Logger returns the System's logger.
func (s *System) Logger() log.Logger { return s.logger }

// DeadLetters returns a subscription channel receiving every Deadletter
// recorded by actors or processes belonging to this System from this point
// forward.
func (s *System) DeadLetters() <-chan Deadletter { return s.sink.Subscribe() }

// DeadletterCount returns the running total of recorded deadletters.
func (s *System) DeadletterCount() int64 { return s.sink.Count() }

// ScheduleTell arranges for pid.Tell(payload) to fire once, after delay,
// without the caller blocking on a timer of its own. The underlying
// Scheduler is started lazily on first use, so a System that never calls
// ScheduleTell never pays for its background goroutine.
func (s *System) ScheduleTell(pid *PID, payload any, delay time.Duration) error {
	s.schedulerOnce.Do(func() { s.scheduler.Start(context.Background()) })
	return s.scheduler.ScheduleTell(pid, payload, delay)
}

// fillDefaults injects the System's defaults into any field of props the
// caller left unset.
func (s *System) fillDefaults(props *Props) *Props {
	if props.dispatcher == nil {
		props.dispatcher = s.dispatcher
	}
	if props.mailboxProducer == nil {
		props.mailboxProducer = s.mailboxProducer
	}
	if props.logger == nil {
		props.logger = s.logger
	}
	if props.sink == nil {
		props.sink = s.sink
	}
	if s.stats != nil {
		props.stats = append(props.stats, s.stats)
	}
	return props
}

// Spawn auto-names and spawns an actor from props, injecting this System's
// defaults into any field props left unset.
func (s *System) Spawn(props *Props) (*PID, error) {
	return s.actor.Spawn(s.fillDefaults(props))
}

// SpawnNamed spawns an actor from props under name, injecting this
// System's defaults into any field props left unset.
func (s *System) SpawnNamed(props *Props, name string) (*PID, error) {
	return s.actor.SpawnNamed(s.fillDefaults(props), name)
}

// SpawnMany spawns every entry in propsList concurrently via an errgroup
// and returns their PIDs in the same order, or the first error encountered.
// A failed spawn does not cancel sibling spawns already in flight; it only
// causes SpawnMany to return that error after every goroutine finishes.
func (s *System) SpawnMany(propsList []*Props) ([]*PID, error) {
	pids := make([]*PID, len(propsList))
	var g errgroup.Group
	for i, props := range propsList {
		i, props := i, props
		g.Go(func() error {
			pid, err := s.Spawn(props)
			if err != nil {
				return err
			}
			pids[i] = pid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pids, nil
}

// Shutdown stops every registered LocalProcess and disposes its mailbox,
// stops the dispatcher if it is a WorkerPoolDispatcher, and stops the stats
// collector if one is attached, aggregating every error encountered with
// multierr.
func (s *System) Shutdown() error {
	var errs error
	for id, proc := range s.registry.Snapshot() {
		lp, ok := proc.(*LocalProcess)
		if !ok {
			continue
		}
		lp.Stop(newPID(s.registry, id))
		errs = multierr.Append(errs, disposeMailbox(lp.Mailbox()))
	}
	if wp, ok := s.dispatcher.(*WorkerPoolDispatcher); ok {
		wp.Stop()
	}
	if s.stats != nil {
		s.stats.Stop(context.Background())
	}
	s.scheduler.Stop(context.Background())
	return errs
}

// disposeMailbox recovers a panic from Mailbox.Dispose (e.g. a bounded
// queue failing to release cleanly) and reports it as an error instead of
// letting one actor's teardown abort the whole Shutdown.
func disposeMailbox(mb *Mailbox) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispose mailbox: %v", r)
		}
	}()
	mb.Dispose()
	return nil
}
