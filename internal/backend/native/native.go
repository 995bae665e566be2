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

//go:build arm64 || (arm && arm.7) || ppc64 || ppc64le

package native

import (
	"unsafe"

	"github.com/srediag/exclusive/api"
)

// Cell is an LL/SC exclusive cell. It must not be copied after first use.
type Cell struct {
	own  storage
	pair unsafe.Pointer
}

var _ api.Backend = (*Cell)(nil)

// New returns a cell holding initial at version zero.
func New(initial api.Word) *Cell {
	c := &Cell{}
	c.pair = c.own.base()
	storePair(c.pair, initial, 0)
	return c
}

// At returns a cell over an existing pair, which must be PairAlign-aligned,
// PairSize bytes long and outlive the cell. The pair is used as found.
func At(pair unsafe.Pointer) *Cell {
	return &Cell{pair: pair}
}

func (c *Cell) Load(ord api.Ordering) api.Word {
	return loadValue(c.pair, ord)
}

func (c *Cell) Store(w api.Word, ord api.Ordering) {
	c.Swap(w, ord)
}

func (c *Cell) Swap(w api.Word, ord api.Ordering) api.Word {
	val, ver := loadPair(c.pair, api.Relaxed)
	for {
		curVal, curVer, ok := casPair(c.pair, val, ver, w, ver+1, ord)
		if ok {
			return val
		}
		val, ver = curVal, curVer
	}
}

func (c *Cell) LoadLinked(ord api.Ordering) api.Link {
	val, ver := loadPair(c.pair, ord)
	return api.Link{Value: val, Version: ver, Order: ord}
}

func (c *Cell) StoreConditional(l api.Link, w api.Word, ord api.Ordering) (api.Link, bool) {
	curVal, curVer, ok := casPair(c.pair, l.Value, l.Version, w, l.Version+1, ord)
	if ok {
		return api.Link{}, true
	}
	return api.Link{Value: curVal, Version: curVer, Order: l.Order}, false
}

func (c *Cell) TryStoreConditional(l api.Link, w api.Word, ord api.Ordering) bool {
	_, ok := c.StoreConditional(l, w, ord)
	return ok
}
