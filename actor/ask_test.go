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
	"time"

	"github.com/stretchr/testify/require"
)

func TestAsk_ReceivesReplyFromTarget(t *testing.T) {
	sys := NewSystem("test-system")
	target, err := sys.Spawn(PropsFromProducer(func() IActor {
		return NewFuncActor(func(ctx *Context) {
			if req, ok := ctx.Message().Payload.(string); ok {
				ctx.Reply("echo:" + req)
			}
		})
	}))
	require.NoError(t, err)

	resp, err := Ask(sys, target, "ping", time.Second)
	require.NoError(t, err)
	require.Equal(t, "echo:ping", resp)
}

func TestAsk_TimesOutWhenTargetNeverReplies(t *testing.T) {
	sys := NewSystem("test-system")
	target, err := sys.Spawn(PropsFromProducer(func() IActor {
		return NewFuncActor(func(*Context) {})
	}))
	require.NoError(t, err)

	_, err = Ask(sys, target, "ping", 10*time.Millisecond)
	require.ErrorIs(t, err, ErrRequestTimeout)
}

func TestAsk_TimeoutStopsTheReplyActor(t *testing.T) {
	sys := NewSystem("test-system")
	target, err := sys.Spawn(PropsFromProducer(func() IActor {
		return NewFuncActor(func(*Context) {})
	}))
	require.NoError(t, err)

	before := len(sys.Registry().Snapshot())
	_, err = Ask(sys, target, "ping", 5*time.Millisecond)
	require.ErrorIs(t, err, ErrRequestTimeout)
	after := sys.Registry().Snapshot()

	require.Len(t, after, before+1, "the reply actor is registered, then stopped, but left in place as a dead LocalProcess")
	var deadReplyActors int
	for id, proc := range after {
		if id == target.ID() {
			continue
		}
		if lp, ok := proc.(*LocalProcess); ok && lp.IsDead() {
			deadReplyActors++
		}
	}
	require.Equal(t, 1, deadReplyActors)
}
