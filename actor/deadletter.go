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
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/nullprotocol/windmill/address"
)

// Deadletter records a single dropped delivery: a message sent to an
// unknown or dead Process. Sender may be nil when the drop originates from
// outside any actor (e.g. a bare tell against an unregistered PID).
type Deadletter struct {
	Sender   *PID
	Receiver *address.Address
	Message  *Message
	SentAt   time.Time
	Reason   any
}

// DeadletterSink aggregates dropped deliveries: a running total count and
// the distinct set of receiver addresses (Receiver.String()) that have
// produced at least one deadletter, plus a subscription point so callers
// can observe drops without polling. Every PID of one registry shares one
// address, so the set does not tell apart actors of the same System.
type DeadletterSink struct {
	mu        sync.RWMutex
	count     atomic.Int64
	receivers mapset.Set[string]
	subs      []chan Deadletter
}

// NewDeadletterSink creates an empty DeadletterSink.
func NewDeadletterSink() *DeadletterSink {
	return &DeadletterSink{receivers: mapset.NewSet[string]()}
}

// Count returns the running total number of recorded deadletters.
func (s *DeadletterSink) Count() int64 { return s.count.Load() }

// DistinctReceivers returns the number of distinct receiver addresses that
// have produced at least one deadletter; a nil Receiver counts as one
// address of its own.
func (s *DeadletterSink) DistinctReceivers() int { return s.receivers.Cardinality() }

// Subscribe returns a channel that receives every Deadletter recorded from
// this point forward. The channel holds 64 deadletters; while it is full,
// further deadletters are dropped for that subscriber, so a slow subscriber
// never blocks record.
func (s *DeadletterSink) Subscribe() <-chan Deadletter {
	ch := make(chan Deadletter, 64)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *DeadletterSink) record(d Deadletter) {
	s.count.Inc()
	receiverID := ""
	if d.Receiver != nil {
		receiverID = d.Receiver.String()
	}
	s.receivers.Add(receiverID)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- d:
		default:
		}
	}
}
