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

//go:build linux

package exclusive

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/srediag/exclusive/api"
)

type RegionTestSuite struct {
	suite.Suite
	name string
	ctx  context.Context
}

func (s *RegionTestSuite) SetupTest() {
	if !DefaultStrategy().LockFree() {
		s.T().Skip("no lock-free strategy on this target")
	}
	if _, err := os.Stat("/dev/shm"); err != nil {
		s.T().Skipf("/dev/shm not available: %v", err)
	}
	s.name = fmt.Sprintf("exclusive-region-test-%d", os.Getpid())
	s.ctx = context.Background()
}

func (s *RegionTestSuite) TearDownTest() {
	_ = RemoveRegion(s.name)
}

func (s *RegionTestSuite) TestMappingsShareCells() {
	a, err := CreateRegion(s.ctx, s.name, 8)
	s.Require().NoError(err)
	defer a.Close(s.ctx)
	b, err := OpenRegion(s.ctx, s.name, 8)
	s.Require().NoError(err)
	defer b.Close(s.ctx)

	ca, cb := RegionCell[uint](a, 3), RegionCell[uint](b, 3)
	s.Equal(uint(0), ca.Load(Acquire))

	l := ca.LoadLinked(Acquire)
	cb.StoreDirect(9, Release)
	fresh, ok := l.StoreConditional(1, AcqRel)
	s.False(ok)
	s.Equal(uint(9), fresh.Get())
	s.True(fresh.TryStoreConditional(10, AcqRel))
	s.Equal(uint(10), cb.Load(Acquire))
	s.Equal(uint(0), RegionCell[uint](b, 2).Load(Relaxed))
}

func (s *RegionTestSuite) TestConcurrentIncrementAcrossMappings() {
	const workers, increments = 4, 5000
	var regions []*Region
	for i := 0; i < 2; i++ {
		r, err := CreateRegion(s.ctx, s.name, 1)
		s.Require().NoError(err)
		defer r.Close(s.ctx)
		regions = append(regions, r)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(c *Cell[uint]) {
			defer wg.Done()
			for i := 0; i < increments; i++ {
				l := c.LoadLinked(Acquire)
				for {
					fresh, ok := l.StoreConditional(l.Get()+1, AcqRel)
					if ok {
						break
					}
					l = fresh
				}
			}
		}(RegionCell[uint](regions[w%2], 0))
	}
	wg.Wait()
	s.Equal(uint(workers*increments), RegionCell[uint](regions[0], 0).Load(SeqCst))
}

func (s *RegionTestSuite) TestLockBasedStrategyRejected() {
	_, err := CreateRegion(s.ctx, s.name, 1, WithStrategy(api.Generic))
	s.ErrorIs(err, ErrLockBasedStrategy)
}

func (s *RegionTestSuite) TestOpenTooSmall() {
	a, err := CreateRegion(s.ctx, s.name, 2)
	s.Require().NoError(err)
	defer a.Close(s.ctx)
	_, err = OpenRegion(s.ctx, s.name, 1024)
	s.ErrorIs(err, ErrRegionTooSmall)
}

func (s *RegionTestSuite) TestSlotBoundsAndClose() {
	r, err := CreateRegion(s.ctx, s.name, 2)
	s.Require().NoError(err)
	s.Equal(2, r.Slots())
	s.Equal(DefaultStrategy(), r.Strategy())
	s.Panics(func() { RegionCell[uint](r, 2) })
	s.Panics(func() { RegionCell[uint](r, -1) })

	s.NoError(r.Close(s.ctx))
	s.ErrorIs(r.Close(s.ctx), ErrRegionClosed)
	s.Panics(func() { RegionCell[uint](r, 0) })
}

func TestRegionTestSuite(t *testing.T) {
	suite.Run(t, new(RegionTestSuite))
}
