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

// Package workerpool implements a small, shard-per-goroutine pool of
// reusable worker goroutines used to back the actor runtime's worker-pool
// Dispatcher.
package workerpool

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"
)

const (
	maxShards = 128

	workerStateIdle    int32 = 0
	workerStateWorking int32 = 1
	workerStateClosed  int32 = 2
)

// Option applies a configuration choice to a WorkerPool at construction.
type Option interface {
	Apply(pool *WorkerPool)
}

// OptionFunc adapts a plain function to the Option interface.
type OptionFunc func(pool *WorkerPool)

func (f OptionFunc) Apply(pool *WorkerPool) { f(pool) }

// WithNumShards sets the number of shards the pool distributes work across.
// Values above maxShards are clamped.
func WithNumShards(numShards int) Option {
	return OptionFunc(func(pool *WorkerPool) {
		if numShards > maxShards {
			numShards = maxShards
		}
		pool.numShards = numShards
	})
}

// WithPassivateAfter sets how long an idle worker is kept warm before its
// cleanup goroutine may retire it.
func WithPassivateAfter(d time.Duration) Option {
	return OptionFunc(func(pool *WorkerPool) {
		pool.passivateAfter = d
	})
}

// WorkerPool manages a pool of workers sharded across goroutines to reduce
// lock contention on the hot submission path.
type WorkerPool struct {
	passivateAfter time.Duration
	numShards      int
	shards         []*shard
	mutex          sync.RWMutex
	started        atomic.Bool
	stopped        atomic.Bool
	spawned        atomic.Uint64
	seq            atomic.Uint64
}

// New creates a WorkerPool with the given options. It must be started with
// Start before Submit does anything.
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		passivateAfter: time.Second,
		numShards:      1,
	}
	for _, o := range opts {
		o.Apply(wp)
	}
	if wp.numShards < 1 {
		wp.numShards = 1
	} else if wp.numShards > maxShards {
		wp.numShards = maxShards
	}
	return wp
}

// SpawnedWorkers returns the current count of live worker goroutines.
func (wp *WorkerPool) SpawnedWorkers() int { return int(wp.spawned.Load()) }

// Start allocates the pool's shards and begins its idle-worker cleanup
// routine. Safe to call more than once.
func (wp *WorkerPool) Start() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if wp.started.Load() {
		return
	}
	wp.shards = make([]*shard, wp.numShards)
	for i := range wp.shards {
		wp.shards[i] = &shard{
			wp:      wp,
			workers: sync.Pool{New: func() any { return &worker{workChan: make(chan func())} }},
			idle:    make([]*worker, 0, 256),
		}
	}
	wp.started.Store(true)
	go wp.cleanup()
}

// Stop closes every worker channel and prevents new submissions. Workers
// already executing a task finish it before exiting.
func (wp *WorkerPool) Stop() {
	wp.mutex.Lock()
	defer wp.mutex.Unlock()
	if !wp.started.Load() || wp.stopped.Swap(true) {
		return
	}
	for _, s := range wp.shards {
		s.closeAll()
	}
}

// Submit hands task to an idle worker, spawning one if none is idle. If the
// pool has not been started or has been stopped, task is discarded.
func (wp *WorkerPool) Submit(task func()) {
	wp.mutex.RLock()
	if !wp.started.Load() || wp.stopped.Load() {
		wp.mutex.RUnlock()
		return
	}
	idx := wp.shardFor(wp.seq.Add(1)) % uint64(wp.numShards)
	s := wp.shards[idx]
	wp.mutex.RUnlock()
	s.acquire(task)
}

// shardFor hashes a monotonic ticket through xxh3 to spread submissions
// evenly across shards without per-call randomness.
func (wp *WorkerPool) shardFor(ticket uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], ticket)
	return xxh3.Hash(buf[:])
}

func (wp *WorkerPool) cleanup() {
	ticker := time.NewTicker(wp.passivateAfter)
	defer ticker.Stop()
	for range ticker.C {
		if wp.stopped.Load() {
			return
		}
		cutoff := time.Now().Add(-wp.passivateAfter).UnixNano()
		for _, s := range wp.shards {
			s.retireIdleBefore(cutoff)
		}
	}
}

type worker struct {
	workChan  chan func()
	shard     *shard
	lastUsed  atomic.Int64
	isDeleted atomic.Bool
	state     atomic.Int32
}

func (w *worker) run() {
	s := w.shard
	s.wp.spawned.Add(1)
	for task := range w.workChan {
		task()
		w.state.Store(workerStateIdle)
		if !s.setIdle(w) {
			break
		}
	}
	s.wp.spawned.Add(^uint64(0))
	s.workers.Put(w)
}

type shard struct {
	wp      *WorkerPool
	workers sync.Pool
	idle    []*worker
	mu      sync.Mutex
	stopped atomic.Bool
}

func (s *shard) acquire(task func()) {
	s.mu.Lock()
	if s.stopped.Load() {
		s.mu.Unlock()
		return
	}
	if n := len(s.idle); n > 0 {
		w := s.idle[n-1]
		s.idle[n-1] = nil
		s.idle = s.idle[:n-1]
		s.mu.Unlock()
		if !w.isDeleted.Load() && w.state.CompareAndSwap(workerStateIdle, workerStateWorking) {
			w.workChan <- task
			return
		}
		return
	}
	s.mu.Unlock()

	w := s.workers.Get().(*worker)
	w.shard = s
	if w.workChan == nil {
		w.workChan = make(chan func())
	}
	w.state.Store(workerStateWorking)
	w.isDeleted.Store(false)
	go w.run()
	w.workChan <- task
}

func (s *shard) setIdle(w *worker) bool {
	w.lastUsed.Store(time.Now().UnixNano())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.Load() {
		return false
	}
	s.idle = append(s.idle, w)
	return true
}

func (s *shard) retireIdleBefore(cutoff int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.idle[:0]
	for _, w := range s.idle {
		if w.lastUsed.Load() < cutoff {
			if !w.isDeleted.Swap(true) {
				w.state.Store(workerStateClosed)
				close(w.workChan)
			}
			continue
		}
		kept = append(kept, w)
	}
	s.idle = kept
}

func (s *shard) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped.Store(true)
	for i, w := range s.idle {
		if !w.isDeleted.Swap(true) {
			w.state.Store(workerStateClosed)
			close(w.workChan)
		}
		s.idle[i] = nil
	}
	s.idle = s.idle[:0]
}
