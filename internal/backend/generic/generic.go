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

// Package generic implements the exclusive cell contract with a mutex.
//
// Writers serialize on the mutex. Readers never take it: the version doubles
// as a sequence counter that is odd while a write is in flight, so a linked
// load retries until it sees the same even version on both sides of the
// value read.
package generic

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/srediag/exclusive/api"
)

// Cell is a lock-based exclusive cell. It must not be copied after first use.
type Cell struct {
	mu      sync.Mutex
	version atomic.Uintptr
	value   atomic.Uintptr
}

var _ api.Backend = (*Cell)(nil)

// New returns a cell holding initial at version zero.
func New(initial api.Word) *Cell {
	c := &Cell{}
	c.value.Store(uintptr(initial))
	return c
}

func (c *Cell) Load(api.Ordering) api.Word {
	return api.Word(c.value.Load())
}

func (c *Cell) Store(w api.Word, _ api.Ordering) {
	c.mu.Lock()
	c.publish(w)
	c.mu.Unlock()
}

func (c *Cell) Swap(w api.Word, _ api.Ordering) api.Word {
	c.mu.Lock()
	old := api.Word(c.value.Load())
	c.publish(w)
	c.mu.Unlock()
	return old
}

func (c *Cell) LoadLinked(ord api.Ordering) api.Link {
	val, ver := c.snapshot()
	return api.Link{Value: val, Version: ver, Order: ord}
}

func (c *Cell) StoreConditional(l api.Link, w api.Word, _ api.Ordering) (api.Link, bool) {
	c.mu.Lock()
	val, ver := api.Word(c.value.Load()), api.Word(c.version.Load())
	if val == l.Value && ver == l.Version {
		c.publish(w)
		c.mu.Unlock()
		return api.Link{}, true
	}
	c.mu.Unlock()
	return api.Link{Value: val, Version: ver, Order: l.Order}, false
}

func (c *Cell) TryStoreConditional(l api.Link, w api.Word, ord api.Ordering) bool {
	_, ok := c.StoreConditional(l, w, ord)
	return ok
}

// publish must be called with mu held.
func (c *Cell) publish(w api.Word) {
	ver := c.version.Load()
	c.version.Store(ver + 1)
	c.value.Store(uintptr(w))
	c.version.Store(ver + 2)
}

func (c *Cell) snapshot() (api.Word, api.Word) {
	for {
		ver := c.version.Load()
		if ver&1 != 0 {
			runtime.Gosched()
			continue
		}
		val := c.value.Load()
		if c.version.Load() == ver {
			return api.Word(val), api.Word(ver)
		}
	}
}
