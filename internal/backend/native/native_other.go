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

//go:build !arm64 && !(arm && arm.7) && !ppc64 && !ppc64le

package native

import (
	"runtime"
	"unsafe"

	"github.com/srediag/exclusive/api"
)

const (
	PairSize  = 16
	PairAlign = 16
)

// Available is false: this architecture (or a GOARM below 7) has no
// load-exclusive/store-exclusive pair the package drives.
func Available() bool {
	return false
}

func New(api.Word) api.Backend {
	panic("native: not supported on " + runtime.GOARCH)
}

func At(unsafe.Pointer) api.Backend {
	panic("native: not supported on " + runtime.GOARCH)
}
