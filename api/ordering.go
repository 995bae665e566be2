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

// Package api defines the contract shared by every exclusive cell backend and its consumers.
package api

import (
	"fmt"
	"strings"
)

// Ordering is the memory ordering requested for a cell operation.
type Ordering uint8

const (
	Relaxed Ordering = iota
	Release
	Acquire
	AcqRel
	SeqCst
)

var orderingNames = [...]string{
	Relaxed: "Relaxed",
	Release: "Release",
	Acquire: "Acquire",
	AcqRel:  "AcqRel",
	SeqCst:  "SeqCst",
}

func (o Ordering) String() string {
	if int(o) < len(orderingNames) {
		return orderingNames[o]
	}
	return fmt.Sprintf("Ordering(%d)", uint8(o))
}

// ParseOrdering maps an ordering name as returned by String back to its
// value. Matching ignores case.
func ParseOrdering(name string) (Ordering, error) {
	for i, n := range orderingNames {
		if strings.EqualFold(n, name) {
			return Ordering(i), nil
		}
	}
	return 0, fmt.Errorf("unknown ordering %q", name)
}

// Valid reports whether o is one of the defined orderings.
func (o Ordering) Valid() bool { return o <= SeqCst }

// ValidForLoad reports whether o may be used by an operation that only reads.
func (o Ordering) ValidForLoad() bool {
	return o == Relaxed || o == Acquire || o == SeqCst
}

// ValidForStore reports whether o may be used by an operation that only writes.
func (o Ordering) ValidForStore() bool {
	return o == Relaxed || o == Release || o == SeqCst
}

// Acquires reports whether o orders later accesses after the operation.
func (o Ordering) Acquires() bool {
	return o == Acquire || o == AcqRel || o == SeqCst
}

// Releases reports whether o orders earlier accesses before the operation.
func (o Ordering) Releases() bool {
	return o == Release || o == AcqRel || o == SeqCst
}

// OrderingError is the panic value raised when an operation is handed an
// ordering that does not fit its direction.
type OrderingError struct {
	Op       string
	Ordering Ordering
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("exclusive: invalid ordering %s for %s", e.Ordering, e.Op)
}

// CheckLoad panics with an *OrderingError unless o is valid for a load.
func CheckLoad(op string, o Ordering) {
	if !o.ValidForLoad() {
		panic(&OrderingError{Op: op, Ordering: o})
	}
}

// CheckStore panics with an *OrderingError unless o is valid for a store.
func CheckStore(op string, o Ordering) {
	if !o.ValidForStore() {
		panic(&OrderingError{Op: op, Ordering: o})
	}
}

// CheckRMW panics with an *OrderingError unless o is a defined ordering.
// Read-modify-write operations accept every ordering.
func CheckRMW(op string, o Ordering) {
	if !o.Valid() {
		panic(&OrderingError{Op: op, Ordering: o})
	}
}
