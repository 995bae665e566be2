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

package native

import (
	"sync/atomic"
	"unsafe"

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

// Available is always true: LDXP/STXP are part of the base ARMv8-A ISA.
func Available() bool {
	return true
}

func storePair(pair unsafe.Pointer, val, ver api.Word) {
	p := (*layout.Pair)(pair)
	atomic.StoreUint64(&p[1], uint64(ver))
	atomic.StoreUint64(&p[0], uint64(val))
}

func loadValue(pair unsafe.Pointer, ord api.Ordering) api.Word {
	return api.Word(loadWord(pair, ord.Acquires()))
}

func loadPair(pair unsafe.Pointer, ord api.Ordering) (api.Word, api.Word) {
	val, ver := loadExclusive(pair, ord.Acquires())
	return api.Word(val), api.Word(ver)
}

func casPair(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer api.Word, ord api.Ordering) (api.Word, api.Word, bool) {
	val, ver, ok := storeExclusive(pair, uint64(oldVal), uint64(oldVer), uint64(newVal), uint64(newVer), ord.Acquires(), ord.Releases())
	return api.Word(val), api.Word(ver), ok
}

// loadWord is LDAR when acq is set and a plain load otherwise.
//
//go:noescape
func loadWord(addr unsafe.Pointer, acq bool) uint64

// loadExclusive reads the pair with LDAXP or LDXP and clears the monitor.
// Both halves are single-copy atomic; the pair as a whole may be torn
// under a concurrent write, in which case a store against it fails.
//
//go:noescape
func loadExclusive(pair unsafe.Pointer, acq bool) (val, ver uint64)

// storeExclusive swaps in the new pair iff the old one is present. It
// retries lost reservations and returns the pair it compared against.
//
//go:noescape
func storeExclusive(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer uint64, acq, rel bool) (curVal, curVer uint64, swapped bool)
