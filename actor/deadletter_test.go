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

func TestDeadletterSink_CountsAndDistinctReceivers(t *testing.T) {
	sink := NewDeadletterSink()
	a := NewProcessRegistry("sys", nil).Address()

	sink.record(Deadletter{Receiver: a, Message: NewMessage("x"), Reason: "no such process"})
	sink.record(Deadletter{Receiver: a, Message: NewMessage("y"), Reason: "no such process"})

	require.Equal(t, int64(2), sink.Count())
	require.Equal(t, 1, sink.DistinctReceivers())
}

func TestDeadletterSink_SubscribeReceivesRecordedDrops(t *testing.T) {
	sink := NewDeadletterSink()
	ch := sink.Subscribe()

	sink.record(Deadletter{Message: NewMessage("x"), Reason: "dropped"})

	select {
	case d := <-ch:
		require.Equal(t, "x", d.Message.Payload)
		require.Equal(t, "dropped", d.Reason)
	default:
		t.Fatal("expected the subscriber channel to have received the drop")
	}
}

func TestDeadletterSink_SlowSubscriberNeverBlocksRecord(t *testing.T) {
	sink := NewDeadletterSink()
	ch := sink.Subscribe()
	_ = ch // never drained

	for i := 0; i < 100; i++ {
		require.NotPanics(t, func() {
			sink.record(Deadletter{Message: NewMessage(i), Reason: "dropped"})
		})
	}
	require.Equal(t, int64(100), sink.Count())
}

func TestDeadletterSink_MultipleSubscribersAllReceive(t *testing.T) {
	sink := NewDeadletterSink()
	a := sink.Subscribe()
	b := sink.Subscribe()

	sink.record(Deadletter{Message: NewMessage("x"), Reason: "dropped"})

	for _, ch := range []<-chan Deadletter{a, b} {
		select {
		case d := <-ch:
			require.Equal(t, "x", d.Message.Payload)
		default:
			t.Fatal("every subscriber must receive the drop")
		}
	}
}
