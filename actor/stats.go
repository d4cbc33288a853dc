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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	"github.com/nullprotocol/windmill/internal/xsync"
	"github.com/nullprotocol/windmill/log"
)

// MailboxStatistics observes a mailbox's lifecycle events. Implementations
// must be fast and non-throwing: they are invoked synchronously on the
// posting goroutine for post, on the drain routine for receive/empty, and
// from Mailbox.Start for started. Heavy reporting belongs in a
// separate collector fed by an asynchronous channel, see StatsCollector.
type MailboxStatistics interface {
	// MailboxStarted is notified once, from Mailbox.Start.
	MailboxStarted(actorID string)
	// MessagePosted is notified from PostSystemMessage/PostUserMessage,
	// once per push, before the mailbox is scheduled.
	MessagePosted(actorID string)
	// MessageReceived is notified after every message invoked during a
	// drain pass, system or user.
	MessageReceived(actorID string)
	// MailboxEmpty is notified at the end of a drain pass that found no
	// further work and did not reschedule.
	MailboxEmpty(actorID string)
}

// StatKind discriminates the four mailbox lifecycle events a
// MailboxStatistics observer can report.
type StatKind int

const (
	StatMailboxStarted StatKind = iota
	StatMessagePosted
	StatMessageReceived
	StatMailboxEmpty
)

// StatEvent is an internal, asynchronously-collected record of a mailbox
// lifecycle event, pushed onto a buffered channel by the statistics
// observer and drained by a scheduled job into per-actor counters.
type StatEvent struct {
	Kind          StatKind
	ActorID       string
	Timestamp     time.Time
	CorrelationID string
}

// StatsCollector is a MailboxStatistics implementation that never blocks the
// drain routine: every event is a non-blocking send onto a buffered channel,
// dropped if the channel is saturated, and drained on a fixed interval by a
// go-quartz job into per-actor counters, one map per event kind keyed by
// actor id.
type StatsCollector struct {
	events    chan StatEvent
	started   *xsync.Map[string, int64]
	posted    *xsync.Map[string, int64]
	received  *xsync.Map[string, int64]
	emptied   *xsync.Map[string, int64]
	logger    log.Logger
	scheduler quartz.Scheduler
	mu        sync.Mutex
	running   atomic.Bool
}

var _ MailboxStatistics = (*StatsCollector)(nil)

// NewStatsCollector creates a StatsCollector with the given event buffer
// depth. A non-positive depth falls back to 1024.
func NewStatsCollector(bufferSize int, logger log.Logger) *StatsCollector {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	if logger == nil {
		logger = log.DiscardLogger
	}
	sched, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &StatsCollector{
		events:    make(chan StatEvent, bufferSize),
		started:   xsync.NewMap[string, int64](),
		posted:    xsync.NewMap[string, int64](),
		received:  xsync.NewMap[string, int64](),
		emptied:   xsync.NewMap[string, int64](),
		logger:    logger,
		scheduler: sched,
	}
}

// Start launches the background drain job on the given flush interval. A
// non-positive interval falls back to 100ms.
func (c *StatsCollector) Start(ctx context.Context, flushInterval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running.Swap(true) {
		return
	}
	if flushInterval <= 0 {
		flushInterval = 100 * time.Millisecond
	}
	c.scheduler.Start(ctx)
	flushJob := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		c.drainOnce()
		return true, nil
	})
	trigger := quartz.NewSimpleTrigger(flushInterval)
	_ = c.scheduler.ScheduleJob(quartz.NewJobDetail(flushJob, quartz.NewJobKey(uuid.NewString())), trigger)
}

// Stop halts the background job. Buffered events already pushed but not yet
// drained are flushed once synchronously before returning.
func (c *StatsCollector) Stop(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running.Swap(false) {
		return
	}
	_ = c.scheduler.Clear()
	c.scheduler.Stop()
	c.scheduler.Wait(ctx)
	c.drainOnce()
}

func (c *StatsCollector) drainOnce() {
	for {
		select {
		case ev := <-c.events:
			c.apply(ev)
		default:
			return
		}
	}
}

func (c *StatsCollector) apply(ev StatEvent) {
	var bucket *xsync.Map[string, int64]
	switch ev.Kind {
	case StatMailboxStarted:
		bucket = c.started
	case StatMessagePosted:
		bucket = c.posted
	case StatMessageReceived:
		bucket = c.received
	case StatMailboxEmpty:
		bucket = c.emptied
	default:
		return
	}
	n, _ := bucket.Get(ev.ActorID)
	bucket.Set(ev.ActorID, n+1)
}

func (c *StatsCollector) push(kind StatKind, actorID string) {
	select {
	case c.events <- StatEvent{Kind: kind, ActorID: actorID, Timestamp: time.Now(), CorrelationID: uuid.NewString()}:
	default:
		c.logger.Warnf("stats event dropped for %s: collector buffer full", actorID)
	}
}

func (c *StatsCollector) MailboxStarted(actorID string)  { c.push(StatMailboxStarted, actorID) }
func (c *StatsCollector) MessagePosted(actorID string)   { c.push(StatMessagePosted, actorID) }
func (c *StatsCollector) MessageReceived(actorID string) { c.push(StatMessageReceived, actorID) }
func (c *StatsCollector) MailboxEmpty(actorID string)    { c.push(StatMailboxEmpty, actorID) }

// MessagesReceived returns the count of MessageReceived events drained so
// far for actorID. It reflects only events the background job has already
// flushed, not ones still sitting in the channel buffer.
func (c *StatsCollector) MessagesReceived(actorID string) int64 {
	n, _ := c.received.Get(actorID)
	return n
}

// MessagesPosted returns the count of MessagePosted events drained so far
// for actorID. It reflects only events the background job has already
// flushed, not ones still sitting in the channel buffer.
func (c *StatsCollector) MessagesPosted(actorID string) int64 {
	n, _ := c.posted.Get(actorID)
	return n
}
