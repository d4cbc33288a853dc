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

import "errors"

var (
	// ErrNameAlreadyExists is raised by ProcessRegistry.TryAdd on a duplicate id.
	ErrNameAlreadyExists = errors.New("actor name already exists")

	// ErrRegistryBusy marks a transient registration failure. Props' default
	// spawner retries on this error and never on ErrNameAlreadyExists; the
	// bundled ProcessRegistry never returns it.
	ErrRegistryBusy = errors.New("process registry is busy")

	// ErrDead indicates a LocalProcess has been stopped and can no longer
	// accept deliveries.
	ErrDead = errors.New("process is dead")

	// ErrMailboxDisposed indicates an operation was attempted against a
	// mailbox or mailbox queue after Dispose.
	ErrMailboxDisposed = errors.New("mailbox has been disposed")

	// ErrRequestTimeout is returned by Ask when no response arrives within
	// the given timeout.
	ErrRequestTimeout = errors.New("ask: request timed out")

	// ErrInvalidCapacity is returned when a bounded mailbox queue is
	// constructed with a non-positive capacity.
	ErrInvalidCapacity = errors.New("mailbox queue capacity must be positive")

	// ErrSchedulerNotStarted is returned by Scheduler.ScheduleTell when the
	// scheduler has not been started, or has already been stopped.
	ErrSchedulerNotStarted = errors.New("scheduler is not started")
)
