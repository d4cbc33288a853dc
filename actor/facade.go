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

// Actor is the spawn entry point bound to a single ProcessRegistry. It is
// the minimal façade the embedding API exposes: build a Props from a
// Producer, then Spawn or SpawnNamed it.
type Actor struct {
	registry *ProcessRegistry
}

// NewActor binds a spawn façade to registry.
func NewActor(registry *ProcessRegistry) *Actor {
	return &Actor{registry: registry}
}

// Spawn auto-names the new actor via the registry's monotonic counter and
// runs the default spawner against props.
func (a *Actor) Spawn(props *Props) (*PID, error) {
	return spawn(a.registry, a.registry.NextID(), props)
}

// SpawnNamed runs the default spawner against props under a caller-chosen
// name. It fails with ErrNameAlreadyExists if name is already taken.
func (a *Actor) SpawnNamed(props *Props, name string) (*PID, error) {
	return spawn(a.registry, name, props)
}
