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

// Package shm maps named shared memory segments so cells can live in memory
// visible to several processes.
package shm

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"
)

var (
	// ErrUnsupported is returned on platforms without POSIX shared memory.
	ErrUnsupported = errors.New("shm: shared memory regions are not supported on this platform")
	// ErrTooSmall is returned when an existing segment is shorter than requested.
	ErrTooSmall = errors.New("shm: segment smaller than requested size")
)

// MapOptions defines options for mapping shared memory.
type MapOptions struct {
	Name   string
	Size   int
	Create bool
}

func (o MapOptions) validate() error {
	if o.Name == "" || strings.ContainsRune(o.Name, '/') {
		return fmt.Errorf("shm: invalid segment name %q", o.Name)
	}
	if o.Size <= 0 {
		return fmt.Errorf("shm: invalid size %d", o.Size)
	}
	return nil
}

// MappedRegion is a mapped segment. The mapping starts on a page boundary.
type MappedRegion struct {
	Name string
	Addr []byte
	fd   int
}

// Pointer returns the address of the byte at off. It panics if off is
// outside the mapping.
func (r *MappedRegion) Pointer(off int) unsafe.Pointer {
	return unsafe.Pointer(&r.Addr[off])
}
