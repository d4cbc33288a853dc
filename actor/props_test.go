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

func TestPropsFromProducer_Defaults(t *testing.T) {
	p := PropsFromProducer(func() IActor { return NewFuncActor(func(*Context) {}) })
	require.Equal(t, 3, p.retryMax)
	require.Nil(t, p.dispatcher)
	require.Nil(t, p.mailboxProducer)
	require.Nil(t, p.parent)
	require.Empty(t, p.stats)
}

func TestPropsFromProducer_OptionsApply(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	parent := newPID(r, "$parent")
	stat := &countingStats{}
	dispatcher := NewSyncDispatcher(7)

	p := PropsFromProducer(
		func() IActor { return NewFuncActor(func(*Context) {}) },
		WithDispatcher(dispatcher),
		WithParent(parent),
		WithMailboxStatistics(stat),
		WithSpawnRetry(5, time.Millisecond, 50*time.Millisecond),
	)

	require.Same(t, dispatcher, p.dispatcher)
	require.True(t, p.parent.Equals(parent))
	require.Len(t, p.stats, 1)
	require.Equal(t, 5, p.retryMax)
}

func TestSpawn_FillsDefaultsWhenPropsLeavesThemNil(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	p := PropsFromProducer(func() IActor { return NewFuncActor(func(*Context) {}) })

	pid, err := spawn(r, r.NextID(), p)
	require.NoError(t, err)
	require.NotNil(t, pid)
}

func TestSpawn_DuplicateNamePropagatesWithoutRetry(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	p := PropsFromProducer(func() IActor { return NewFuncActor(func(*Context) {}) })

	_, err := spawn(r, "dup", p)
	require.NoError(t, err)

	_, err = spawn(r, "dup", p)
	require.ErrorIs(t, err, ErrNameAlreadyExists)
}

func TestSpawn_PostsStartedAndStartsMailbox(t *testing.T) {
	r := NewProcessRegistry("sys", nil)
	var sawStarted bool
	stat := &countingStats{}
	p := PropsFromProducer(func() IActor {
		return NewFuncActor(func(ctx *Context) {
			if _, ok := ctx.Message().Payload.(Started); ok {
				sawStarted = true
			}
		})
	}, WithMailboxStatistics(stat))

	_, err := spawn(r, r.NextID(), p)
	require.NoError(t, err)
	require.True(t, sawStarted)
	require.Equal(t, 1, stat.started)
}
