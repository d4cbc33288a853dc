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

// MessageInvoker is the callback surface a Mailbox drains into. It is held
// by the mailbox as a shared reference so that concurrent RegisterHandlers
// and the drain routine are safe; the drain never races with the invoker's
// owner being torn down because the owner is retained by the dispatcher's
// captured closure for the duration of a run.
type MessageInvoker interface {
	// InvokeSystemMessage interprets a lifecycle signal popped from the
	// system queue. Started is promoted to a user-visible receive so the
	// actor observes it on construction. A panic need not be recovered
	// here: the owning Mailbox recovers any panic that escapes this call
	// and forwards it to EscalateFailure on the invoker's behalf.
	InvokeSystemMessage(m *Message)
	// InvokeUserMessage sets the current-message slot, runs the user
	// receive behavior, and clears the slot. Same panic-recovery guarantee
	// as InvokeSystemMessage: the mailbox catches what this doesn't.
	InvokeUserMessage(m *Message)
	// EscalateFailure reports a panic or error raised by user code while
	// handling message. The default policy absorbs the failure; callers may
	// wire a dead-letter sink to observe it instead, see Context.
	EscalateFailure(reason any, message *Message)
}
