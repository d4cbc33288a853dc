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
	"testing"

	"github.com/stretchr/testify/require"
)

func newLocalProcessForTest() (*LocalProcess, *recordingInvoker) {
	mb, inv := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	return NewLocalProcess(mb, nil), inv
}

func TestLocalProcess_ForwardsUserAndSystemMessages(t *testing.T) {
	lp, inv := newLocalProcessForTest()
	pid := newPID(NewProcessRegistry("sys", nil), "x")

	lp.SendUserMessage(pid, NewMessage("hi"))
	require.Equal(t, []any{"hi"}, inv.userSeen)

	lp.SendSystemMessage(pid, MessageStarted)
	require.Contains(t, inv.sysSeen, Started{})
}

func TestLocalProcess_StopMarksDeadAndDropsFurtherSends(t *testing.T) {
	lp, inv := newLocalProcessForTest()
	pid := newPID(NewProcessRegistry("sys", nil), "x")

	require.False(t, lp.IsDead())
	lp.Stop(pid)
	require.True(t, lp.IsDead())

	lp.SendUserMessage(pid, NewMessage("too-late"))
	require.Empty(t, inv.userSeen, "a dead LocalProcess must drop further sends")
}

func TestLocalProcess_RecordsDeadletterOnPostDeathSend(t *testing.T) {
	sink := NewDeadletterSink()
	mb, _ := newTestMailbox(NewSyncDispatcher(DefaultThroughput))
	lp := NewLocalProcess(mb, sink)
	pid := newPID(NewProcessRegistry("sys", nil), "x")

	lp.Stop(pid)
	lp.SendUserMessage(pid, NewMessage("dropped"))

	require.Equal(t, int64(1), sink.Count())
	require.Equal(t, 1, sink.DistinctReceivers())
}

func TestDeadLetterProcess_AlwaysDead(t *testing.T) {
	dlp := NewDeadLetterProcess(nil)
	require.True(t, dlp.IsDead())
	pid := newPID(NewProcessRegistry("sys", nil), "x")
	require.NotPanics(t, func() { dlp.Stop(pid) })
}

func TestDeadLetterProcess_DropsSilentlyWithoutSink(t *testing.T) {
	dlp := NewDeadLetterProcess(nil)
	pid := newPID(NewProcessRegistry("sys", nil), "x")
	require.NotPanics(t, func() {
		dlp.SendUserMessage(pid, NewMessage("x"))
		dlp.SendSystemMessage(pid, NewMessage("y"))
	})
}

func TestDeadLetterProcess_RecordsDropsWhenSinkInstalled(t *testing.T) {
	sink := NewDeadletterSink()
	dlp := NewDeadLetterProcess(sink)
	pid := newPID(NewProcessRegistry("sys", nil), "$999")

	dlp.SendUserMessage(pid, NewMessage("absent"))

	require.Equal(t, int64(1), sink.Count())
	require.Equal(t, 1, sink.DistinctReceivers())
}
