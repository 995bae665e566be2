/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package backend

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/layout"
)

func TestProbeMatchesTarget(t *testing.T) {
	s := Probe()
	assert.True(t, Available(s))
	assert.True(t, Available(api.Generic))
	switch runtime.GOARCH {
	case "arm64", "arm", "ppc64", "ppc64le":
		assert.Equal(t, api.NativeLLSC, s)
	case "386":
		assert.Equal(t, api.TaggedCAS, s)
	case "amd64":
		assert.Contains(t, []api.Strategy{api.TaggedCAS, api.Generic}, s)
	default:
		assert.Equal(t, api.Generic, s)
	}
	assert.False(t, Available(api.Strategy(42)))
}

func TestDefaultIsStable(t *testing.T) {
	assert.Equal(t, Default(), Default())
	assert.True(t, Available(Default()))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, Probe(), resolve(""))
	assert.Equal(t, Probe(), resolve("bogus"))
	assert.Equal(t, api.Generic, resolve("generic"))
	for _, s := range api.Strategies {
		if Available(s) {
			assert.Equal(t, s, resolve(s.String()))
		} else {
			assert.Equal(t, Probe(), resolve(s.String()))
		}
	}
}

func TestNewEveryAvailableStrategy(t *testing.T) {
	for _, s := range api.Strategies {
		if !Available(s) {
			assert.Panics(t, func() { New(s, 0) })
			continue
		}
		b := New(s, 7)
		l := b.LoadLinked(api.Acquire)
		require.Equal(t, api.Word(7), l.Value, s.String())
		assert.True(t, b.TryStoreConditional(l, 8, api.SeqCst), s.String())
		assert.Equal(t, api.Word(8), b.Load(api.Relaxed), s.String())
	}
}

func TestAt(t *testing.T) {
	var block layout.Block
	pair := unsafe.Pointer(block.Pair())

	_, err := At(api.Generic, pair)
	assert.Error(t, err)

	s := Probe()
	if !s.LockFree() {
		t.Skip("no lock-free strategy on this target")
	}
	_, err = At(s, unsafe.Add(pair, 8))
	assert.Error(t, err)

	b, err := At(s, pair)
	require.NoError(t, err)
	l := b.LoadLinked(api.Relaxed)
	assert.Equal(t, api.Word(0), l.Value)
	assert.True(t, b.TryStoreConditional(l, 3, api.Release))
	assert.Equal(t, api.Word(3), b.Load(api.Acquire))
}
