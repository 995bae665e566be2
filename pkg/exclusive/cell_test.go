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
	"math"
	"math/rand"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/codec"
)

type CellTestSuite struct {
	suite.Suite
	strategy api.Strategy
}

func (s *CellTestSuite) newUint(v uint) *Cell[uint] {
	return New(v, WithStrategy(s.strategy))
}

func (s *CellTestSuite) TestStrategy() {
	s.Equal(s.strategy, s.newUint(0).Strategy())
}

func (s *CellTestSuite) TestStoreConditionalSucceedsUncontended() {
	c := s.newUint(0)
	l := c.LoadLinked(Acquire)
	s.Equal(uint(0), l.Get())

	_, ok := l.StoreConditional(1, Release)
	s.True(ok)
	s.Equal(uint(1), c.Load(Relaxed))
}

func (s *CellTestSuite) TestStoreDirectFailsLink() {
	c := s.newUint(0)
	l := c.LoadLinked(Relaxed)
	c.StoreDirect(5, Release)

	fresh, ok := l.StoreConditional(1, SeqCst)
	s.False(ok)
	s.Equal(uint(5), fresh.Get())
	s.Equal(uint(5), c.Load(Acquire))
}

func (s *CellTestSuite) TestExchangeDirectFailsLink() {
	c := s.newUint(0)
	l := c.LoadLinked(Relaxed)
	s.Equal(uint(0), c.ExchangeDirect(5, AcqRel))

	fresh, ok := l.StoreConditional(1, SeqCst)
	s.False(ok)
	s.Equal(uint(5), fresh.Get())
	s.Equal(uint(5), c.Load(SeqCst))
}

func (s *CellTestSuite) TestRestoredValueStillFailsLink() {
	c := s.newUint(1)
	l := c.LoadLinked(Acquire)
	c.StoreDirect(2, Relaxed)
	c.StoreDirect(1, Relaxed)

	fresh, ok := l.StoreConditional(3, AcqRel)
	s.False(ok)
	s.Equal(uint(1), fresh.Get())
	s.Equal(uint(1), c.Load(Relaxed))

	l = c.LoadLinked(Acquire)
	s.Equal(uint(1), c.ExchangeDirect(1, SeqCst))
	s.False(l.TryStoreConditional(3, AcqRel))

	l = c.LoadLinked(Acquire)
	inner := c.LoadLinked(Acquire)
	_, ok = inner.StoreConditional(2, Release)
	s.Require().True(ok)
	inner = c.LoadLinked(Acquire)
	_, ok = inner.StoreConditional(1, Release)
	s.Require().True(ok)
	s.False(l.TryStoreConditional(3, AcqRel))
}

func (s *CellTestSuite) TestRoundTripThroughTwoValuesFailsLink() {
	c := s.newUint(1)
	l := c.LoadLinked(Acquire)
	s.Equal(uint(1), c.ExchangeDirect(2, AcqRel))
	c.StoreDirect(3, Release)
	s.Equal(uint(3), c.ExchangeDirect(1, SeqCst))

	fresh, ok := l.StoreConditional(4, AcqRel)
	s.False(ok)
	s.Equal(uint(1), fresh.Get())
	s.Equal(uint(1), c.Load(Relaxed))

	_, ok = fresh.StoreConditional(4, AcqRel)
	s.True(ok)
	s.Equal(uint(4), c.Load(Relaxed))
}

func (s *CellTestSuite) TestConsumedSnapshotFailsCleanly() {
	c := s.newUint(0)
	l := c.LoadLinked(Acquire)
	used, ok := l.StoreConditional(1, Release)
	s.Require().True(ok)

	fresh, ok := used.StoreConditional(2, Release)
	s.False(ok)
	s.Equal(uint(1), fresh.Get())
	s.False(used.TryStoreConditional(2, Release))

	_, ok = fresh.StoreConditional(2, Release)
	s.True(ok)
	s.Equal(uint(2), c.Load(Relaxed))
}

func (s *CellTestSuite) TestFreshSnapshotSucceeds() {
	c := s.newUint(0)
	l := c.LoadLinked(Relaxed)
	c.StoreDirect(7, Relaxed)

	fresh, ok := l.StoreConditional(1, Relaxed)
	s.Require().False(ok)
	_, ok = fresh.StoreConditional(fresh.Get()+1, Relaxed)
	s.True(ok)
	s.Equal(uint(8), c.Load(Relaxed))
}

func (s *CellTestSuite) TestSnapshotIsSingleWriter() {
	c := s.newUint(0)
	l := c.LoadLinked(Relaxed)
	s.True(l.TryStoreConditional(1, Relaxed))
	s.False(l.TryStoreConditional(2, Relaxed))
	s.Equal(uint(1), c.Load(Relaxed))
}

func (s *CellTestSuite) TestOrderingValidation() {
	c := s.newUint(0)
	l := c.LoadLinked(Relaxed)
	cases := []struct {
		name  string
		op    func(api.Ordering)
		valid []api.Ordering
	}{
		{"load", func(o api.Ordering) { c.Load(o) }, []api.Ordering{Relaxed, Acquire, SeqCst}},
		{"load_linked", func(o api.Ordering) { c.LoadLinked(o) }, []api.Ordering{Relaxed, Acquire, SeqCst}},
		{"store_direct", func(o api.Ordering) { c.StoreDirect(0, o) }, []api.Ordering{Relaxed, Release, SeqCst}},
		{"exchange_direct", func(o api.Ordering) { c.ExchangeDirect(0, o) }, []api.Ordering{Relaxed, Release, Acquire, AcqRel, SeqCst}},
		{"store_conditional", func(o api.Ordering) { l.StoreConditional(0, o) }, []api.Ordering{Relaxed, Release, Acquire, AcqRel, SeqCst}},
	}
	for _, tc := range cases {
		for _, o := range []api.Ordering{Relaxed, Release, Acquire, AcqRel, SeqCst, api.Ordering(9)} {
			want := false
			for _, v := range tc.valid {
				want = want || v == o
			}
			if want {
				s.NotPanics(func() { tc.op(o) }, "%s %s", tc.name, o)
				continue
			}
			s.PanicsWithError((&api.OrderingError{Op: tc.name, Ordering: o}).Error(), func() { tc.op(o) }, "%s %s", tc.name, o)
		}
	}
}

func (s *CellTestSuite) TestMatchesSequentialModel() {
	rng := rand.New(rand.NewSource(int64(s.strategy) + 1))
	c := s.newUint(0)
	oracle := New[uint](0, WithStrategy(api.Generic))
	model := uint(0)
	for i := 0; i < 2000; i++ {
		v := uint(rng.Intn(8))
		switch rng.Intn(4) {
		case 0:
			c.StoreDirect(v, SeqCst)
			oracle.StoreDirect(v, SeqCst)
			model = v
		case 1:
			s.Require().Equal(model, c.ExchangeDirect(v, AcqRel))
			s.Require().Equal(model, oracle.ExchangeDirect(v, AcqRel))
			model = v
		case 2:
			l, lo := c.LoadLinked(Acquire), oracle.LoadLinked(Acquire)
			s.Require().Equal(model, l.Get())
			s.Require().Equal(model, lo.Get())
			if rng.Intn(2) == 0 {
				c.StoreDirect(model, Release)
				oracle.StoreDirect(model, Release)
			}
			_, ok := l.StoreConditional(v, Release)
			_, okOracle := lo.StoreConditional(v, Release)
			s.Require().Equal(okOracle, ok)
			if ok {
				model = v
			}
		default:
			s.Require().Equal(model, c.Load(Relaxed))
		}
	}
	s.Equal(oracle.Load(SeqCst), c.Load(SeqCst))
}

func (s *CellTestSuite) TestConcurrentIncrementConverges() {
	const workers, increments = 4, 10000
	c := s.newUint(0)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
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
		}()
	}
	wg.Wait()
	s.Equal(uint(workers*increments), c.Load(SeqCst))
}

func (s *CellTestSuite) TestConcurrentIncrementWithDirectWriters() {
	// A writer that conditionally rewrites the current value forces retries
	// without changing the count.
	const workers, increments = 3, 5000
	c := s.newUint(0)
	stop := make(chan struct{})
	var churn sync.WaitGroup
	churn.Add(1)
	go func() {
		defer churn.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			l := c.LoadLinked(Relaxed)
			l.TryStoreConditional(l.Get(), SeqCst)
		}
	}()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
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
		}()
	}
	wg.Wait()
	close(stop)
	churn.Wait()
	s.Equal(uint(workers*increments), c.Load(SeqCst))
}

func (s *CellTestSuite) TestIntPayload() {
	c := New(-5, WithStrategy(s.strategy))
	l := c.LoadLinked(Relaxed)
	s.Equal(-5, l.Get())
	s.True(l.TryStoreConditional(math.MinInt, Relaxed))
	s.Equal(math.MinInt, c.ExchangeDirect(math.MaxInt, SeqCst))
	s.Equal(math.MaxInt, c.Load(Relaxed))
}

func (s *CellTestSuite) TestBoolPayload() {
	c := New(false, WithStrategy(s.strategy))
	l := c.LoadLinked(Acquire)
	s.False(l.Get())
	s.True(l.TryStoreConditional(true, Release))
	s.True(c.Load(Acquire))
	s.True(c.ExchangeDirect(false, SeqCst))
	s.False(c.Load(Acquire))
}

func (s *CellTestSuite) TestAddrPayload() {
	x, y := new(int), new(int)
	ax, ay := Addr(uintptr(unsafe.Pointer(x))), Addr(uintptr(unsafe.Pointer(y)))
	c := New(ax, WithStrategy(s.strategy))
	l := c.LoadLinked(Acquire)
	s.Equal(ax, l.Get())
	s.True(l.TryStoreConditional(ay, Release))
	s.Equal(ay, c.Load(Acquire))
	s.Equal(codec.Encode(ay), codec.Encode(c.Load(Relaxed)))
}

func TestCellTestSuite(t *testing.T) {
	for _, st := range AvailableStrategies() {
		t.Run(st.String(), func(t *testing.T) {
			suite.Run(t, &CellTestSuite{strategy: st})
		})
	}
}

func TestDefaultStrategy(t *testing.T) {
	s := DefaultStrategy()
	require.True(t, Available(s), "default strategy %s is not available", s)
	assert.Equal(t, s.LockFree(), IsLockFree())
	assert.Equal(t, s, New(uint(0)).Strategy())
}
