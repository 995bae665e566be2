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
)

// Option configures a cell or a region.
type Option func(*options)

type options struct {
	strategy api.Strategy
	observer api.Observer
}

func newOptions(opts []Option) *options {
	o := &options{strategy: backend.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithStrategy selects the backend strategy instead of the process default.
// Constructors panic if s is not available on this target.
func WithStrategy(s api.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithObserver reports every linked load, conditional store and direct
// write to obs.
func WithObserver(obs api.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
