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

package tagged

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/layout"
)

const (
	PairSize  = layout.PairSize
	PairAlign = layout.PairSize
)

type storage struct {
	block layout.Block
}

func (s *storage) base() unsafe.Pointer {
	return unsafe.Pointer(s.block.Pair())
}

// Available reports whether the CPU implements CMPXCHG16B.
func Available() bool {
	return cpu.X86.HasCX16
}

func storePair(pair unsafe.Pointer, val, ver api.Word) {
	p := (*layout.Pair)(pair)
	atomic.StoreUint64(&p[1], uint64(ver))
	atomic.StoreUint64(&p[0], uint64(val))
}

func loadValue(pair unsafe.Pointer) api.Word {
	return api.Word(atomic.LoadUint64(&(*layout.Pair)(pair)[0]))
}

// loadPair reads the version on both sides of the value. Writes replace
// both halves at once and the version never repeats, so equal versions
// bracket a value that belongs to them.
func loadPair(pair unsafe.Pointer) (api.Word, api.Word) {
	p := (*layout.Pair)(pair)
	for {
		ver := atomic.LoadUint64(&p[1])
		val := atomic.LoadUint64(&p[0])
		if atomic.LoadUint64(&p[1]) == ver {
			return api.Word(val), api.Word(ver)
		}
	}
}

func casPair(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer api.Word) (api.Word, api.Word, bool) {
	val, ver, ok := cas128(pair, uint64(oldVal), uint64(oldVer), uint64(newVal), uint64(newVer))
	return api.Word(val), api.Word(ver), ok
}

// cas128 is LOCK CMPXCHG16B on the pair. It returns the pair observed by
// the instruction, which equals the old pair when swapped is true.
//
//go:noescape
func cas128(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer uint64) (curVal, curVer uint64, swapped bool)
