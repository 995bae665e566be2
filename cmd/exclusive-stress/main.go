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

// Command exclusive-stress runs the concurrent-increment convergence check
// against every exclusive cell backend available on this machine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/srediag/exclusive/adapter"
	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/logger"
	"github.com/srediag/exclusive/internal/stress"
	"github.com/srediag/exclusive/pkg/exclusive"
)

type flags struct {
	workers    int
	increments int
	ordering   string
	backend    string
	pauseAfter int
	listen     string
	logLevel   int
}

func parseFlags() flags {
	var f flags
	flag.IntVar(&f.workers, "workers", runtime.NumCPU(), "concurrent workers per backend")
	flag.IntVar(&f.increments, "increments", 100000, "increments per worker")
	flag.StringVar(&f.ordering, "ordering", "AcqRel", "ordering for conditional stores")
	flag.StringVar(&f.backend, "backend", "all", "backend to run: all, generic, tagged or native")
	flag.IntVar(&f.pauseAfter, "pause-after", 0, "consecutive failures before a worker backs off (0 never)")
	flag.StringVar(&f.listen, "listen", "", "serve /metrics, /live and /ready on this address and keep running")
	flag.IntVar(&f.logLevel, "log-level", logger.Level(), "log level, 0 trace to 5 silent")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		logger.Internal.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	exclusive.SetLogLevel(f.logLevel)
	ord, err := api.ParseOrdering(f.ordering)
	if err != nil {
		return err
	}
	strategies, err := selectStrategies(f.backend)
	if err != nil {
		return err
	}
	printHost()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := stress.Config{
		Workers:    f.workers,
		Increments: f.increments,
		Ordering:   ord,
		PauseAfter: f.pauseAfter,
	}
	results := stress.NewResults()

	var srv *http.Server
	if f.listen != "" {
		obs := adapter.NewPrometheusObserver("exclusive")
		cfg.Observer = obs
		srv = serve(f.listen, obs, results, strategies)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	runErr := stress.RunAll(ctx, strategies, cfg, results)
	for _, rep := range results.Reports() {
		status := "ok"
		if !rep.Converged() {
			status = "FAILED"
		}
		fmt.Printf("%-8s %-6s got=%d want=%d failures=%d pauses=%d elapsed=%s\n",
			rep.Strategy, status, rep.Got, rep.Want, rep.Failures, rep.Pauses, rep.Elapsed)
	}
	if runErr != nil {
		return runErr
	}
	if srv != nil {
		logger.Internal.Infof("serving on %s until interrupted", f.listen)
		<-ctx.Done()
	}
	return nil
}

func selectStrategies(name string) ([]api.Strategy, error) {
	if name == "all" {
		return exclusive.AvailableStrategies(), nil
	}
	s, err := api.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	if !exclusive.Available(s) {
		return nil, fmt.Errorf("%s backend is not available on %s", s, runtime.GOARCH)
	}
	return []api.Strategy{s}, nil
}

func printHost() {
	model := "unknown"
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}
	cores, err := cpu.Counts(true)
	if err != nil {
		cores = runtime.NumCPU()
	}
	fmt.Printf("cpu: %s (%d logical cores) %s/%s\n", model, cores, runtime.GOOS, runtime.GOARCH)
	fmt.Printf("default backend: %s (lock-free: %t)\n", exclusive.DefaultStrategy(), exclusive.IsLockFree())
}

func serve(addr string, obs *adapter.PrometheusObserver, results *stress.Results, strategies []api.Strategy) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(obs, collectors.NewGoCollector())

	health := healthcheck.NewHandler()
	health.AddReadinessCheck("convergence", func() error {
		if results.Converged(strategies) {
			return nil
		}
		return errors.New("convergence runs pending or failed")
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/live", health)
	mux.Handle("/ready", health)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Internal.Errorf("listen %s: %v", addr, err)
		}
	}()
	return srv
}
