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

// Package codec converts payload values to and from backend words.
package codec

import (
	"fmt"
	"unsafe"

	"github.com/srediag/exclusive/api"
)

// Payload is the set of types a cell can hold: anything whose underlying
// type is a machine word or a bool.
type Payload interface {
	~uint | ~int | ~uintptr | ~bool
}

// Addr is an opaque machine address. It is stored and compared as a word
// and never dereferenced.
type Addr uintptr

// Words used for bool payloads. No other word decodes to a bool.
const (
	FalseWord api.Word = 0
	TrueWord  api.Word = 1
)

// BoolWordError is the panic value raised when a word other than
// FalseWord or TrueWord is decoded as a bool.
type BoolWordError struct {
	Word api.Word
}

func (e *BoolWordError) Error() string {
	return fmt.Sprintf("codec: word %#x is not a bool encoding", uintptr(e.Word))
}

// isBool reports whether T is bool-shaped. The other payload kinds are all
// exactly one word wide.
func isBool[T Payload]() bool {
	var zero T
	return unsafe.Sizeof(zero) != unsafe.Sizeof(api.Word(0))
}

// Encode maps v to its word. The mapping is injective.
func Encode[T Payload](v T) api.Word {
	if isBool[T]() {
		if *(*bool)(unsafe.Pointer(&v)) {
			return TrueWord
		}
		return FalseWord
	}
	return *(*api.Word)(unsafe.Pointer(&v))
}

// Decode maps w back to the payload it encodes. Decoding a word that did
// not come from Encode of a bool panics with *BoolWordError.
func Decode[T Payload](w api.Word) T {
	var v T
	if isBool[T]() {
		switch w {
		case TrueWord:
			*(*bool)(unsafe.Pointer(&v)) = true
		case FalseWord:
		default:
			panic(&BoolWordError{Word: w})
		}
		return v
	}
	*(*api.Word)(unsafe.Pointer(&v)) = w
	return v
}
