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
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/atomic"

	"github.com/nullprotocol/windmill/address"
)

// ProcessRegistry is a per-System directory from id to Process, with a
// monotonic counter for auto-naming. Its map is guarded by a single mutex,
// held only during insert and lookup; each PID caches the Process it
// resolves to so the mutex is on the hot path only for the first-ever send.
type ProcessRegistry struct {
	mu        sync.Mutex
	address   *address.Address
	seq       atomic.Uint64
	processes map[string]Process
	deadLetter *DeadLetterProcess
}

// NewProcessRegistry creates an empty ProcessRegistry for the named system.
func NewProcessRegistry(systemName string, sink *DeadletterSink) *ProcessRegistry {
	return &ProcessRegistry{
		address:    address.New(systemName),
		processes:  make(map[string]Process),
		deadLetter: NewDeadLetterProcess(sink),
	}
}

// Address returns the registry's address, shared by every PID it mints.
func (r *ProcessRegistry) Address() *address.Address { return r.address }

// NextID returns a fresh auto-generated id of the form "$<n>", where <n> is
// a per-registry monotonic counter.
func (r *ProcessRegistry) NextID() string {
	return "$" + strconv.FormatUint(r.seq.Inc(), 10)
}

// TryAdd inserts process under id and returns a PID bound to this registry.
// It fails with ErrNameAlreadyExists if id is already taken; the registry
// owns the Process from this point on, the PID does not.
func (r *ProcessRegistry) TryAdd(id string, process Process) (*PID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.processes[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrNameAlreadyExists, id)
	}
	r.processes[id] = process
	return newPID(r, id), nil
}

// Get resolves id to its Process, returning the registry's DeadLetterProcess
// if id is absent.
func (r *ProcessRegistry) Get(id string) Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.processes[id]; ok {
		return p
	}
	return r.deadLetter
}

// Remove deletes id from the registry. The Process itself is left exactly
// as the caller left it (e.g. already stopped); Remove only drops the
// directory entry.
func (r *ProcessRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.processes, id)
	r.mu.Unlock()
}

// DeadLetter returns the registry's own DeadLetterProcess.
func (r *ProcessRegistry) DeadLetter() *DeadLetterProcess { return r.deadLetter }

// Snapshot returns every currently registered id, for diagnostics and
// System.Shutdown.
func (r *ProcessRegistry) Snapshot() map[string]Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Process, len(r.processes))
	for k, v := range r.processes {
		out[k] = v
	}
	return out
}
