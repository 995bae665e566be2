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

// Package backend picks and builds the exclusive cell backend for the
// running target.
package backend

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/srediag/exclusive/api"
	"github.com/srediag/exclusive/internal/backend/generic"
	"github.com/srediag/exclusive/internal/backend/native"
	"github.com/srediag/exclusive/internal/backend/tagged"
	"github.com/srediag/exclusive/internal/logger"
)

// EnvBackend forces the process default strategy when set to a strategy name.
const EnvBackend = "EXCLUSIVE_BACKEND"

// SlotSize is the stride of cells laid out in external memory. It holds the
// widest pair any backend uses and keeps every slot naturally aligned when
// the base is.
const SlotSize = 16

var (
	defaultOnce     sync.Once
	defaultStrategy api.Strategy
)

// Available reports whether s can serve cells on this target.
func Available(s api.Strategy) bool {
	switch s {
	case api.Generic:
		return true
	case api.TaggedCAS:
		return tagged.Available()
	case api.NativeLLSC:
		return native.Available()
	}
	return false
}

// Probe returns the strongest strategy the target supports: native LL/SC
// where the ISA has it, tagged CAS on x86 with a double-width CAS, the
// generic fallback elsewhere.
func Probe() api.Strategy {
	switch {
	case native.Available():
		return api.NativeLLSC
	case tagged.Available():
		return api.TaggedCAS
	}
	return api.Generic
}

// Default returns the process-wide strategy. It is computed once: Probe,
// overridden by EXCLUSIVE_BACKEND when that names an available strategy.
func Default() api.Strategy {
	defaultOnce.Do(func() {
		defaultStrategy = resolve(os.Getenv(EnvBackend))
		logger.Internal.Infof("%s/%s: using %s backend (lock-free: %t)",
			runtime.GOOS, runtime.GOARCH, defaultStrategy, defaultStrategy.LockFree())
	})
	return defaultStrategy
}

func resolve(forced string) api.Strategy {
	probed := Probe()
	if forced == "" {
		return probed
	}
	s, err := api.ParseStrategy(forced)
	if err != nil {
		logger.Internal.Warnf("%s: %v, keeping %s", EnvBackend, err, probed)
		return probed
	}
	if !Available(s) {
		logger.Internal.Warnf("%s: %s is not available on %s, keeping %s", EnvBackend, s, runtime.GOARCH, probed)
		return probed
	}
	return s
}

// New returns a backend of strategy s holding initial. It panics if s is
// not available.
func New(s api.Strategy, initial api.Word) api.Backend {
	mustBeAvailable(s)
	switch s {
	case api.TaggedCAS:
		return tagged.New(initial)
	case api.NativeLLSC:
		return native.New(initial)
	default:
		return generic.New(initial)
	}
}

// At returns a backend of strategy s over the pair at addr, which must be
// aligned to SlotSize and stay mapped while the backend is used. Only
// lock-free strategies can serve external memory.
func At(s api.Strategy, addr unsafe.Pointer) (api.Backend, error) {
	mustBeAvailable(s)
	if uintptr(addr)%SlotSize != 0 {
		return nil, fmt.Errorf("backend: address %#x is not %d-byte aligned", uintptr(addr), SlotSize)
	}
	switch s {
	case api.TaggedCAS:
		return tagged.At(addr), nil
	case api.NativeLLSC:
		return native.At(addr), nil
	}
	return nil, fmt.Errorf("backend: %s strategy cannot serve shared memory", s)
}

func mustBeAvailable(s api.Strategy) {
	if !Available(s) {
		panic(fmt.Sprintf("backend: %s strategy is not available on %s", s, runtime.GOARCH))
	}
}
