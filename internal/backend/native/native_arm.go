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

//go:build arm.7

package native

import (
	"sync/atomic"
	"unsafe"

	"github.com/srediag/exclusive/api"
)

// The pair is one 64-bit doubleword: value at the lower address, version
// at the higher. LDREXD/STREXD need ARMv6K, so the file only builds with
// GOARM=7; older builds fall back through Available() == false.
const (
	PairSize  = 8
	PairAlign = 8
)

type storage struct {
	state atomic.Uint64
}

func (s *storage) base() unsafe.Pointer {
	return unsafe.Pointer(&s.state)
}

// Available is always true: the build requires GOARM=7.
func Available() bool {
	return true
}

func storePair(pair unsafe.Pointer, val, ver api.Word) {
	atomic.StoreUint64((*uint64)(pair), uint64(uint32(val))|uint64(uint32(ver))<<32)
}

func loadValue(pair unsafe.Pointer, ord api.Ordering) api.Word {
	return api.Word(loadWord(pair, ord.Acquires()))
}

func loadPair(pair unsafe.Pointer, ord api.Ordering) (api.Word, api.Word) {
	val, ver := loadExclusive(pair, ord.Acquires())
	return api.Word(val), api.Word(ver)
}

func casPair(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer api.Word, ord api.Ordering) (api.Word, api.Word, bool) {
	val, ver, ok := storeExclusive(pair, uint32(oldVal), uint32(oldVer), uint32(newVal), uint32(newVer), ord.Acquires(), ord.Releases())
	return api.Word(val), api.Word(ver), ok
}

// loadWord is a plain load followed by DMB ISH when acq is set.
//
//go:noescape
func loadWord(addr unsafe.Pointer, acq bool) uint32

// loadExclusive reads the doubleword with LDREXD, which is single-copy atomic.
//
//go:noescape
func loadExclusive(pair unsafe.Pointer, acq bool) (val, ver uint32)

// storeExclusive swaps in the new pair iff the old one is present. It
// retries lost reservations and returns the pair it compared against.
//
//go:noescape
func storeExclusive(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer uint32, acq, rel bool) (curVal, curVer uint32, swapped bool)
