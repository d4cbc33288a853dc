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

	"github.com/nullprotocol/windmill/log"
)

// Scheduler delivers a tell to a PID once, after a delay, without the
// caller blocking on a timer goroutine of its own. It is pure composition
// over PID.Tell and a go-quartz one-shot trigger; it is not part of the
// mailbox/registry core and introduces no new delivery-ordering guarantees
// beyond an ordinary Tell fired from the job's own goroutine at fire time.
type Scheduler struct {
	mu      sync.Mutex
	quartz  quartz.Scheduler
	started atomic.Bool
	logger  log.Logger
}

// NewScheduler creates a Scheduler. Call Start before ScheduleTell.
func NewScheduler(logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.DiscardLogger
	}
	sched, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &Scheduler{quartz: sched, logger: logger}
}

// Start launches the underlying quartz scheduler. Idempotent.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.Swap(true) {
		return
	}
	s.quartz.Start(ctx)
}

// Stop halts the underlying quartz scheduler and waits for its worker to
// exit. Idempotent.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.Swap(false) {
		return
	}
	_ = s.quartz.Clear()
	s.quartz.Stop()
	s.quartz.Wait(ctx)
}

// ScheduleTell arranges for pid.Tell(payload) to run once, after delay.
// Returns ErrSchedulerNotStarted if the scheduler has not been started (or
// has since been stopped). The job itself never returns an error: Tell
// cannot fail, it only drops to dead-letter if pid no longer resolves.
func (s *Scheduler) ScheduleTell(pid *PID, payload any, delay time.Duration) error {
	if !s.started.Load() {
		return ErrSchedulerNotStarted
	}
	fireJob := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		pid.Tell(payload)
		return true, nil
	})
	detail := quartz.NewJobDetail(fireJob, quartz.NewJobKey(uuid.NewString()))
	return s.quartz.ScheduleJob(detail, quartz.NewRunOnceTrigger(delay))
}
