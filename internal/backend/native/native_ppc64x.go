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

//go:build ppc64 || ppc64le

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

// Fences issued before a store-exclusive sequence.
const (
	fenceNone uint8 = iota
	fenceLight
	fenceFull
)

type storage struct {
	block layout.Block
}

func (s *storage) base() unsafe.Pointer {
	return unsafe.Pointer(s.block.Pair())
}

// Available is always true: Go requires POWER8, which has LQARX/STQCX.
func Available() bool {
	return true
}

func storePair(pair unsafe.Pointer, val, ver api.Word) {
	p := (*layout.Pair)(pair)
	atomic.StoreUint64(&p[1], uint64(ver))
	atomic.StoreUint64(&p[0], uint64(val))
}

// LQARX and STQCX. move the quadword through an even/odd register pair. The
// even register always maps to the doubleword at the lower address on
// big-endian and to the one at the higher address on little-endian.
func toRegs(val, ver api.Word) (even, odd uint64) {
	if valueInEven {
		return uint64(val), uint64(ver)
	}
	return uint64(ver), uint64(val)
}

func fromRegs(even, odd uint64) (val, ver api.Word) {
	if valueInEven {
		return api.Word(even), api.Word(odd)
	}
	return api.Word(odd), api.Word(even)
}

func loadValue(pair unsafe.Pointer, ord api.Ordering) api.Word {
	return api.Word(loadWord(pair, ord == api.SeqCst, ord.Acquires()))
}

func loadPair(pair unsafe.Pointer, ord api.Ordering) (api.Word, api.Word) {
	return fromRegs(loadExclusive(pair, ord == api.SeqCst, ord.Acquires()))
}

func casPair(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer api.Word, ord api.Ordering) (api.Word, api.Word, bool) {
	pre := fenceNone
	switch {
	case ord == api.SeqCst:
		pre = fenceFull
	case ord.Releases():
		pre = fenceLight
	}
	oldEven, oldOdd := toRegs(oldVal, oldVer)
	newEven, newOdd := toRegs(newVal, newVer)
	even, odd, ok := storeExclusive(pair, oldEven, oldOdd, newEven, newOdd, pre, ord.Acquires())
	val, ver := fromRegs(even, odd)
	return val, ver, ok
}

// loadWord issues SYNC first when full is set and LWSYNC after when acq is set.
//
//go:noescape
func loadWord(addr unsafe.Pointer, full, acq bool) uint64

// loadExclusive reads the quadword with LQARX, which is single-copy atomic.
//
//go:noescape
func loadExclusive(pair unsafe.Pointer, full, acq bool) (even, odd uint64)

// storeExclusive swaps in the new quadword iff the old one is present. It
// retries lost reservations and returns the quadword it compared against.
//
//go:noescape
func storeExclusive(pair unsafe.Pointer, oldEven, oldOdd, newEven, newOdd uint64, pre uint8, acq bool) (curEven, curOdd uint64, swapped bool)
