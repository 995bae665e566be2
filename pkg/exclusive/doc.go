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

// Package exclusive provides a memory cell with load-linked /
// store-conditional semantics on every target.
//
// A Cell holds one word-sized payload. LoadLinked captures a Linked
// snapshot; the snapshot's StoreConditional writes only if no other write
// reached the cell since, even one that restored the same value. A failed
// conditional store hands back a fresh snapshot, so a retry loop needs no
// extra load:
//
//	l := c.LoadLinked(exclusive.Acquire)
//	for {
//		fresh, ok := l.StoreConditional(l.Get()+1, exclusive.AcqRel)
//		if ok {
//			break
//		}
//		l = fresh
//	}
//
// Cells are backed by native LL/SC instructions on arm64, arm and ppc64,
// by a version-tagged double-width CAS on x86, and by a mutex elsewhere.
// IsLockFree reports which kind the process got.
package exclusive
