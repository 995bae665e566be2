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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/backend"
	"github.com/srediag/exclusive/internal/logger"
	"github.com/srediag/exclusive/internal/shm"
)

// SlotSize is the number of bytes each region cell occupies.
const SlotSize = backend.SlotSize

var (
	// ErrRegionTooSmall is returned when an existing region holds fewer
	// slots than requested.
	ErrRegionTooSmall = shm.ErrTooSmall
	// ErrLockBasedStrategy is returned when a region is requested with a
	// strategy whose cells rely on a process-local lock.
	ErrLockBasedStrategy = errors.New("exclusive: lock-based strategy cannot serve shared memory")
	// ErrRegionClosed is returned by operations on a closed region.
	ErrRegionClosed = errors.New("exclusive: region closed")
)

// Region is a named shared memory segment holding an array of cells.
// Every process that maps the same name with the same strategy operates
// on the same cells. Fresh slots hold the zero value.
type Region struct {
	mu   sync.RWMutex
	m    *shm.MappedRegion
	opts *options
	n    int
}

// CreateRegion maps the named region, creating it with room for slots
// cells if needed.
func CreateRegion(ctx context.Context, name string, slots int, opts ...Option) (*Region, error) {
	return openRegion(ctx, name, slots, true, opts)
}

// OpenRegion maps an existing region that holds at least slots cells.
func OpenRegion(ctx context.Context, name string, slots int, opts ...Option) (*Region, error) {
	return openRegion(ctx, name, slots, false, opts)
}

func openRegion(ctx context.Context, name string, slots int, create bool, opts []Option) (*Region, error) {
	o := newOptions(opts)
	if !o.strategy.LockFree() {
		return nil, fmt.Errorf("%w: %s", ErrLockBasedStrategy, o.strategy)
	}
	if slots <= 0 {
		return nil, fmt.Errorf("exclusive: invalid slot count %d", slots)
	}
	m, err := shm.MapRegion(ctx, shm.MapOptions{Name: name, Size: slots * SlotSize, Create: create})
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", name, err)
	}
	logger.Internal.Debugf("mapped region %s: %d slots, %s strategy", name, slots, o.strategy)
	return &Region{m: m, opts: o, n: slots}, nil
}

// Slots returns the number of cells in r.
func (r *Region) Slots() int {
	return r.n
}

// Strategy returns the strategy serving r's cells.
func (r *Region) Strategy() api.Strategy {
	return r.opts.strategy
}

// Close unmaps r. Cells obtained from r must not be used afterwards.
func (r *Region) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		return ErrRegionClosed
	}
	err := shm.UnmapRegion(ctx, r.m)
	r.m = nil
	if err != nil {
		return fmt.Errorf("region: %w", err)
	}
	return nil
}

// RegionCell returns the cell stored in slot i of r. It panics if i is
// out of range or r is closed.
func RegionCell[T Payload](r *Region, i int) *Cell[T] {
	if i < 0 || i >= r.n {
		panic(fmt.Sprintf("exclusive: slot %d out of range [0, %d)", i, r.n))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.m == nil {
		panic(ErrRegionClosed)
	}
	b, err := backend.At(r.opts.strategy, r.m.Pointer(i*SlotSize))
	if err != nil {
		panic(err)
	}
	return wrap[T](b, r.opts)
}

// RemoveRegion deletes the named region. Existing mappings stay valid.
func RemoveRegion(name string) error {
	return shm.Remove(name)
}
