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

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscardLogger_NeverPanicsOnOrdinaryLevels(t *testing.T) {
	require.NotPanics(t, func() {
		DiscardLogger.Debug("x")
		DiscardLogger.Debugf("%s", "x")
		DiscardLogger.Info("x")
		DiscardLogger.Infof("%s", "x")
		DiscardLogger.Warn("x")
		DiscardLogger.Warnf("%s", "x")
		DiscardLogger.Error("x")
		DiscardLogger.Errorf("%s", "x")
	})
}

func TestDiscardLogger_PanicLevelPanics(t *testing.T) {
	require.Panics(t, func() { DiscardLogger.Panic("boom") })
}

func TestDiscardLogger_Accessors(t *testing.T) {
	require.Equal(t, InfoLevel, DiscardLogger.LogLevel())
	require.NotEmpty(t, DiscardLogger.LogOutput())
	require.NotNil(t, DiscardLogger.StdLogger())
}
