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

	"github.com/srediag/exclusive/api"
)

// The pair is one 64-bit word: value in the low half, version in the high
// half. Little-endian puts the value at the lower address.
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

// Available is always true: every 386 Go supports has CMPXCHG8B.
func Available() bool {
	return true
}

func pack(val, ver api.Word) uint64 {
	return uint64(uint32(val)) | uint64(uint32(ver))<<32
}

func unpack(s uint64) (api.Word, api.Word) {
	return api.Word(uint32(s)), api.Word(uint32(s >> 32))
}

func storePair(pair unsafe.Pointer, val, ver api.Word) {
	atomic.StoreUint64((*uint64)(pair), pack(val, ver))
}

func loadValue(pair unsafe.Pointer) api.Word {
	return api.Word(atomic.LoadUint32((*uint32)(pair)))
}

func loadPair(pair unsafe.Pointer) (api.Word, api.Word) {
	return unpack(atomic.LoadUint64((*uint64)(pair)))
}

func casPair(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer api.Word) (api.Word, api.Word, bool) {
	val, ver, ok := cas64(pair, uint32(oldVal), uint32(oldVer), uint32(newVal), uint32(newVer))
	return api.Word(val), api.Word(ver), ok
}

// cas64 is LOCK CMPXCHG8B on the packed pair. It returns the halves the
// instruction observed, which equal the old pair when swapped is true.
//
//go:noescape
func cas64(pair unsafe.Pointer, oldVal, oldVer, newVal, newVer uint32) (curVal, curVer uint32, swapped bool)
