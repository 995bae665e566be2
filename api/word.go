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

package api

import "fmt"

// Word is the opaque machine word that backends store. Payload types are
// converted to and from it by the codec; backends never interpret it.
type Word uintptr

// Link is the state captured by a linked load.
//
// A conditional store against a Link succeeds only if the cell still holds
// exactly this (Value, Version) pair. Every successful write advances the
// version, so a value that was overwritten and later restored no longer
// matches. Versions wrap on overflow; a stale Link could only match again
// after 2^(word bits) successful writes between its load and its store.
type Link struct {
	Value   Word
	Version Word
	// Order is the ordering the link was loaded with.
	Order Ordering
}

// Strategy names a backend implementation of the exclusive cell contract.
type Strategy uint8

const (
	// Generic guards (value, version) with a mutex. Works everywhere.
	Generic Strategy = iota
	// TaggedCAS updates (value, version) with one double-width compare-and-swap.
	TaggedCAS
	// NativeLLSC updates (value, version) inside a load-exclusive/store-exclusive pair.
	NativeLLSC
)

var strategyNames = [...]string{
	Generic:    "generic",
	TaggedCAS:  "tagged",
	NativeLLSC: "native",
}

// Strategies lists every strategy in declaration order.
var Strategies = []Strategy{Generic, TaggedCAS, NativeLLSC}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// LockFree reports whether cells served by s never take a lock.
func (s Strategy) LockFree() bool { return s == TaggedCAS || s == NativeLLSC }

// ParseStrategy maps a strategy name as returned by String back to its value.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}
