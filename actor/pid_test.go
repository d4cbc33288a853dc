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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPID_EqualsByAddressAndID(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	a := newPID(r, "$1")
	b := newPID(r, "$1")
	c := newPID(r, "$2")

	require.True(t, a.Equals(b))
	require.False(t, a.Equals(c))
	require.False(t, a.Equals(nil))

	var nilPID *PID
	require.True(t, nilPID.Equals(nil))
}

func TestPID_TellDeliversToResolvedProcess(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	mb, inv := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	lp := NewLocalProcess(mb, nil)
	pid, err := r.TryAdd("worker", lp)
	require.NoError(t, err)

	pid.Tell("hello")
	require.Equal(t, []any{"hello"}, inv.userSeen)
}

func TestPID_TellOnUnregisteredIDIsDroppedSilently(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	pid := newPID(r, "$999")
	require.NotPanics(t, func() { pid.Tell("nobody home") })
}

func TestPID_ResolveFallsBackAfterCachedProcessDies(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	mb, inv := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	lp := NewLocalProcess(mb, nil)
	pid, err := r.TryAdd("worker", lp)
	require.NoError(t, err)

	pid.Tell("first")
	require.Equal(t, []any{"first"}, inv.userSeen)

	lp.Stop(pid)
	pid.Tell("after-stop")
	// the cached pointer is stale (dead LocalProcess); resolve must fall
	// back to the registry, which still lists the stopped process, so the
	// PID resolves to dead-letter and the message is dropped rather than
	// delivered a second time.
	require.Equal(t, []any{"first"}, inv.userSeen)
}

func TestPID_TellFromTagsSenderHint(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	mb, inv := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	lp := NewLocalProcess(mb, nil)
	pid, err := r.TryAdd("worker", lp)
	require.NoError(t, err)

	sender := newPID(r, "$sender")
	pid.TellFrom("hi", sender)
	require.Equal(t, []any{"hi"}, inv.userSeen)
}

func TestPID_StopMarksProcessDead(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	mb, _ := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	lp := NewLocalProcess(mb, nil)
	pid, err := r.TryAdd("worker", lp)
	require.NoError(t, err)

	pid.Stop()
	require.True(t, lp.IsDead())
}

func TestPID_ConcurrentTellOnSameValueIsSafe(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	mb, _ := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	lp := NewLocalProcess(mb, nil)
	pid, err := r.TryAdd("worker", lp)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pid.Tell(i)
		}(i)
	}
	wg.Wait()
}
