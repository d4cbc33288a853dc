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

// Package address provides the value type under which a process is
// reachable: a system name plus a fixed, non-distributed host placeholder.
// Remote addressing is an explicit non-goal of this runtime; this package
// exists so PID and the process registry have a stable, printable location
// to stamp on every process without hard-coding the string inline.
package address

import "strconv"

const (
	protocol    = "local"
	defaultHost = "nonhost"
	defaultPort = 0
)

// Address identifies the system a process belongs to. It carries a host
// and port for symmetry with the wider actor-model vocabulary, but this
// runtime never resolves either across a network boundary.
type Address struct {
	system string
	host   string
	port   int
}

// New creates an Address for the named system at the default local host.
func New(system string) *Address {
	return &Address{system: system, host: defaultHost, port: defaultPort}
}

// System returns the owning system's name.
func (a *Address) System() string { return a.system }

// Host returns the address's host placeholder.
func (a *Address) Host() string { return a.host }

// Port returns the address's port placeholder.
func (a *Address) Port() int { return a.port }

// String returns the canonical representation: local://<system>@<host>:<port>.
func (a *Address) String() string {
	return protocol + "://" + a.system + "@" + a.host + ":" + strconv.Itoa(a.port)
}

// Equals reports whether a and other designate the same system.
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.system == other.system && a.host == other.host && a.port == other.port
}
