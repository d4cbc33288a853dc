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
	"time"
)

// Ask is a convenience built strictly on top of Tell: it spawns a
// short-lived, auto-named reply actor, sends message to target tagged with
// the reply actor's PID as a sender hint, and waits until the reply actor
// sends its first received payload into a one-slot channel, or until timeout. It changes no core
// invariant; it is pure composition over Tell, Spawn, and a timer, and
// lives outside the mailbox/registry core proper.
//
// Ask never cancels target's in-flight receive; timeout only bounds the
// caller's wait.
func Ask(system *System, target *PID, message any, timeout time.Duration) (any, error) {
	responses := make(chan any, 1)

	replyPID, err := system.Spawn(PropsFromProducer(func() IActor {
		return NewFuncActor(func(ctx *Context) {
			if _, ok := ctx.Message().Payload.(Started); ok {
				return
			}
			select {
			case responses <- ctx.Message().Payload:
			default:
			}
			ctx.Self().Stop()
		})
	}))
	if err != nil {
		return nil, err
	}
	defer replyPID.Stop()

	target.TellFrom(message, replyPID)

	select {
	case resp := <-responses:
		return resp, nil
	case <-time.After(timeout):
		return nil, ErrRequestTimeout
	}
}
