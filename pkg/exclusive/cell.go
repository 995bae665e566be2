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

package exclusive

import (
	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/backend"
	"github.com/srediag/exclusive/internal/codec"
)

// Cell is an exclusive-access memory cell holding a T. Cells are safe for
// concurrent use and must be used through the pointer New returns.
type Cell[T Payload] struct {
	b        api.Backend
	strategy api.Strategy
}

// New returns a cell holding initial.
func New[T Payload](initial T, opts ...Option) *Cell[T] {
	o := newOptions(opts)
	return wrap[T](backend.New(o.strategy, codec.Encode(initial)), o)
}

func wrap[T Payload](b api.Backend, o *options) *Cell[T] {
	if o.observer != nil {
		b = &observed{Backend: b, strategy: o.strategy, obs: o.observer}
	}
	return &Cell[T]{b: b, strategy: o.strategy}
}

// Strategy returns the backend strategy serving c.
func (c *Cell[T]) Strategy() api.Strategy {
	return c.strategy
}

// Load returns the current value. ord must be Relaxed, Acquire or SeqCst.
func (c *Cell[T]) Load(ord api.Ordering) T {
	api.CheckLoad("load", ord)
	return codec.Decode[T](c.b.Load(ord))
}

// StoreDirect writes v unconditionally. ord must be Relaxed, Release or
// SeqCst. Every outstanding snapshot of c fails afterwards.
func (c *Cell[T]) StoreDirect(v T, ord api.Ordering) {
	api.CheckStore("store_direct", ord)
	c.b.Store(codec.Encode(v), ord)
}

// ExchangeDirect writes v unconditionally and returns the previous value.
// Every outstanding snapshot of c fails afterwards.
func (c *Cell[T]) ExchangeDirect(v T, ord api.Ordering) T {
	api.CheckRMW("exchange_direct", ord)
	return codec.Decode[T](c.b.Swap(codec.Encode(v), ord))
}

// LoadLinked captures the current value as a snapshot for a later
// conditional store. ord must be Relaxed, Acquire or SeqCst.
func (c *Cell[T]) LoadLinked(ord api.Ordering) Linked[T] {
	api.CheckLoad("load_linked", ord)
	return Linked[T]{cell: c, link: c.b.LoadLinked(ord)}
}

// Linked is a snapshot of a Cell taken by LoadLinked or returned by a
// failed conditional store. Use each snapshot for at most one conditional
// store; after that, continue with the snapshot the store returned.
//
// A snapshot identifies the exact write it observed. Versions wrap, so a
// snapshot held across 2^64 writes (2^32 on 32-bit targets) could succeed
// again; nothing else can make a stale snapshot succeed.
//
// The zero Linked is not bound to a cell and must not be stored through.
type Linked[T Payload] struct {
	cell *Cell[T]
	link api.Link
}

// Get returns the value observed by the snapshot.
func (l Linked[T]) Get() T {
	return codec.Decode[T](l.link.Value)
}

// StoreConditional writes v iff no write reached the cell since the
// snapshot was taken. On success it returns the consumed snapshot and
// true; any later conditional store through it fails and yields a fresh
// one. On failure it returns a fresh snapshot of the value that caused the
// failure and false. Failures are never spurious.
func (l Linked[T]) StoreConditional(v T, ord api.Ordering) (Linked[T], bool) {
	api.CheckRMW("store_conditional", ord)
	fresh, ok := l.cell.b.StoreConditional(l.link, codec.Encode(v), ord)
	if ok {
		return l, true
	}
	return Linked[T]{cell: l.cell, link: fresh}, false
}

// TryStoreConditional is StoreConditional without the fresh snapshot.
func (l Linked[T]) TryStoreConditional(v T, ord api.Ordering) bool {
	api.CheckRMW("store_conditional", ord)
	return l.cell.b.TryStoreConditional(l.link, codec.Encode(v), ord)
}
