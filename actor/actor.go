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

// IActor is the capability a user-defined actor behavior must implement.
// Receive is invoked once per delivered message, system or user, from
// within the owning mailbox's drain routine; it is never called
// concurrently for the same actor.
type IActor interface {
	Receive(ctx *Context)
}

// Producer builds a fresh IActor incarnation. A Context holds one; it is
// invoked exactly once, at spawn time, to incarnate the actor's initial
// behavior.
type Producer func() IActor

// FuncActor adapts a plain function into an IActor, mirroring the
// functional-actor convenience the rest of the ambient stack favors over
// hand-written structs for trivial receive behaviors.
type FuncActor struct {
	receive func(ctx *Context)
}

var _ IActor = (*FuncActor)(nil)

// NewFuncActor wraps fn as an IActor.
func NewFuncActor(fn func(ctx *Context)) *FuncActor {
	return &FuncActor{receive: fn}
}

func (f *FuncActor) Receive(ctx *Context) { f.receive(ctx) }
