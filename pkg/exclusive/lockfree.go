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
	"github.com/srediag/exclusive/internal/logger"
)

// Payload is the set of types a cell can hold.
type Payload = codec.Payload

// Addr is an opaque machine address payload. It is never dereferenced.
type Addr = codec.Addr

type (
	UintCell = Cell[uint]
	IntCell  = Cell[int]
	AddrCell = Cell[Addr]
	BoolCell = Cell[bool]
)

const (
	Relaxed = api.Relaxed
	Release = api.Release
	Acquire = api.Acquire
	AcqRel  = api.AcqRel
	SeqCst  = api.SeqCst
)

// IsLockFree reports whether cells built with the default strategy are
// lock-free on this process. The answer is fixed at first use.
func IsLockFree() bool {
	return backend.Default().LockFree()
}

// DefaultStrategy returns the strategy cells use when no WithStrategy
// option is given.
func DefaultStrategy() api.Strategy {
	return backend.Default()
}

// Available reports whether s can serve cells on this target.
func Available(s api.Strategy) bool {
	return backend.Available(s)
}

// AvailableStrategies lists the strategies that can serve cells on this target.
func AvailableStrategies() []api.Strategy {
	var out []api.Strategy
	for _, s := range api.Strategies {
		if backend.Available(s) {
			out = append(out, s)
		}
	}
	return out
}

// SetLogLevel changes the module's log level (0 trace to 5 silent). The
// default is warn; EXCLUSIVE_LOG_LEVEL sets it at start.
func SetLogLevel(l int) {
	logger.SetLevel(l)
}
