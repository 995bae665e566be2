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

// Package layout carves naturally aligned double-word windows out of
// ordinary Go memory.
//
// Go only guarantees 8-byte alignment for uint64 arrays, while 16-byte
// exclusive and compare-and-swap instructions fault or tear on anything
// less than 16. Three words always contain one aligned pair.
package layout

import "unsafe"

// PairSize is the size and required alignment of a Pair.
const PairSize = 16

// Pair is a (value, version) double word. Index 0 holds the value and
// index 1 the version.
type Pair = [2]uint64

// Block is storage for exactly one aligned Pair. A Block must not be
// copied once Pair has been called.
type Block struct {
	w [3]uint64
}

// Pair returns the aligned window inside b.
func (b *Block) Pair() *Pair {
	if Aligned(uintptr(unsafe.Pointer(&b.w[0]))) {
		return (*Pair)(b.w[0:2])
	}
	return (*Pair)(b.w[1:3])
}

// Aligned reports whether a Pair can start at addr.
func Aligned(addr uintptr) bool {
	return addr%PairSize == 0
}
