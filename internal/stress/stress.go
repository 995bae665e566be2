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

// Package stress runs the concurrent-increment convergence check against
// exclusive cells: N workers each add 1 to a shared counter M times with a
// load-linked/store-conditional retry loop, and the counter must end at N*M.
package stress

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/cenkalti/backoff/v4"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/logger"
	"github.com/srediag/exclusive/pkg/exclusive"
)

// ErrNotConverged is returned when a run finished but the counter is off.
var ErrNotConverged = errors.New("stress: counter did not converge")

const cancelCheckEvery = 1024

// Config describes one convergence run.
type Config struct {
	Workers    int
	Increments int
	// Ordering is used for conditional stores. Linked loads use Acquire
	// when it acquires and Relaxed otherwise.
	Ordering api.Ordering
	// PauseAfter is the number of consecutive conditional-store failures
	// after which a worker sleeps for an exponential backoff interval.
	// Zero never pauses.
	PauseAfter int
	Observer   api.Observer
	Tracer     trace.Tracer
}

func (c Config) withDefaults() (Config, error) {
	if c.Workers <= 0 {
		return c, fmt.Errorf("stress: invalid worker count %d", c.Workers)
	}
	if c.Increments < 0 {
		return c, fmt.Errorf("stress: invalid increment count %d", c.Increments)
	}
	if !c.Ordering.Valid() {
		return c, fmt.Errorf("stress: invalid ordering %s", c.Ordering)
	}
	if c.Tracer == nil {
		c.Tracer = noop.NewTracerProvider().Tracer("")
	}
	return c, nil
}

func (c Config) linkOrdering() api.Ordering {
	if c.Ordering.Acquires() {
		return api.Acquire
	}
	return api.Relaxed
}

// Report is the outcome of one run.
type Report struct {
	Strategy api.Strategy
	Want     uint
	Got      uint
	// Failures counts conditional stores that lost to another writer.
	Failures uint64
	// Pauses counts backoff sleeps taken after PauseAfter failures.
	Pauses  uint64
	Elapsed time.Duration
}

// Converged reports whether the counter ended where it had to.
func (r Report) Converged() bool {
	return r.Got == r.Want
}

type workerReport struct {
	failures uint64
	pauses   uint64
}

// Run performs one convergence run on a fresh cell of strategy s.
func Run(ctx context.Context, s api.Strategy, cfg Config) (Report, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return Report{}, err
	}
	ctx, span := cfg.Tracer.Start(ctx, "stress.run", trace.WithAttributes(
		attribute.String("strategy", s.String()),
		attribute.Int("workers", cfg.Workers),
		attribute.Int("increments", cfg.Increments),
		attribute.String("ordering", cfg.Ordering.String()),
	))
	defer span.End()

	opts := []exclusive.Option{exclusive.WithStrategy(s)}
	if cfg.Observer != nil {
		opts = append(opts, exclusive.WithObserver(cfg.Observer))
	}
	counter := exclusive.New(uint(0), opts...)

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return Report{}, fmt.Errorf("stress: worker pool: %w", err)
	}
	defer pool.Release()

	results := queue.NewRingBuffer(uint64(cfg.Workers))
	defer results.Dispose()

	rep := Report{Strategy: s, Want: uint(cfg.Workers) * uint(cfg.Increments)}
	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			_ = results.Put(increment(ctx, counter, cfg))
		}); err != nil {
			wg.Done()
			wg.Wait()
			return rep, fmt.Errorf("stress: submit worker: %w", err)
		}
	}
	wg.Wait()
	rep.Elapsed = time.Since(start)

	for results.Len() > 0 {
		item, err := results.Get()
		if err != nil {
			return rep, fmt.Errorf("stress: collect reports: %w", err)
		}
		wr := item.(workerReport)
		rep.Failures += wr.failures
		rep.Pauses += wr.pauses
	}
	rep.Got = counter.Load(api.SeqCst)

	span.SetAttributes(
		attribute.Int64("failures", int64(rep.Failures)),
		attribute.Int64("pauses", int64(rep.Pauses)),
	)
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled")
		return rep, err
	}
	if !rep.Converged() {
		span.SetStatus(codes.Error, "not converged")
		logger.Internal.Errorf("%s: counter at %d, want %d", s, rep.Got, rep.Want)
		return rep, fmt.Errorf("%w: %s backend at %d, want %d", ErrNotConverged, s, rep.Got, rep.Want)
	}
	logger.Internal.Infof("%s: %d increments in %s, %d conditional-store failures, %d pauses",
		s, rep.Want, rep.Elapsed, rep.Failures, rep.Pauses)
	return rep, nil
}

func increment(ctx context.Context, counter *exclusive.Cell[uint], cfg Config) workerReport {
	var r workerReport
	pause := backoff.NewExponentialBackOff()
	pause.InitialInterval = 10 * time.Microsecond
	pause.MaxInterval = time.Millisecond
	pause.MaxElapsedTime = 0
	pause.Reset()

	linkOrd := cfg.linkOrdering()
	for i := 0; i < cfg.Increments; i++ {
		if i%cancelCheckEvery == 0 && ctx.Err() != nil {
			return r
		}
		l := counter.LoadLinked(linkOrd)
		streak, paused := 0, false
		for {
			fresh, ok := l.StoreConditional(l.Get()+1, cfg.Ordering)
			if ok {
				break
			}
			l = fresh
			r.failures++
			streak++
			if cfg.PauseAfter > 0 && streak >= cfg.PauseAfter {
				time.Sleep(pause.NextBackOff())
				r.pauses++
				streak, paused = 0, true
			}
		}
		if paused {
			pause.Reset()
		}
	}
	return r
}

// Results holds the latest report per strategy. It is safe to read while
// RunAll is still writing.
type Results struct {
	m cmap.ConcurrentMap[string, Report]
}

// NewResults returns an empty result table.
func NewResults() *Results {
	return &Results{m: cmap.New[Report]()}
}

func (r *Results) Store(rep Report) {
	r.m.Set(rep.Strategy.String(), rep)
}

func (r *Results) Get(s api.Strategy) (Report, bool) {
	return r.m.Get(s.String())
}

// Converged reports whether every strategy in want has a converged report.
func (r *Results) Converged(want []api.Strategy) bool {
	for _, s := range want {
		rep, ok := r.Get(s)
		if !ok || !rep.Converged() {
			return false
		}
	}
	return true
}

// Reports returns the stored reports ordered by strategy.
func (r *Results) Reports() []Report {
	out := make([]Report, 0, r.m.Count())
	for _, rep := range r.m.Items() {
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strategy < out[j].Strategy })
	return out
}

// RunAll runs cfg against each strategy in turn and records every report
// in results. It stops at the first error.
func RunAll(ctx context.Context, strategies []api.Strategy, cfg Config, results *Results) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}
	ctx, span := cfg.Tracer.Start(ctx, "stress.suite")
	defer span.End()
	for _, s := range strategies {
		rep, err := Run(ctx, s, cfg)
		results.Store(rep)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}
