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

// Backend is the exclusive cell contract over opaque words. Orderings are
// validated by the caller; a backend may strengthen any ordering it is given.
//
// Every successful write (Store, Swap or a successful StoreConditional)
// advances the version, so any Link taken before it fails its conditional
// store even if the value is later restored bit for bit.
type Backend interface {
	// Load returns the current value.
	Load(ord Ordering) Word
	// Store writes w unconditionally.
	Store(w Word, ord Ordering)
	// Swap writes w unconditionally and returns the previous value.
	Swap(w Word, ord Ordering) Word
	// LoadLinked captures the current (value, version) pair. It never fails.
	LoadLinked(ord Ordering) Link
	// StoreConditional writes w iff the cell still holds l's pair. On
	// failure it returns the pair the cell holds now.
	StoreConditional(l Link, w Word, ord Ordering) (fresh Link, ok bool)
	// TryStoreConditional is StoreConditional without the fresh pair.
	TryStoreConditional(l Link, w Word, ord Ordering) bool
}

// Observer receives a callback for each cell operation that matters for
// contention monitoring. Implementations must be safe for concurrent use
// and cheap: they run on the caller's goroutine inside every operation.
type Observer interface {
	LinkedLoad(s Strategy)
	ConditionalStore(s Strategy, ok bool)
	DirectWrite(s Strategy)
}
