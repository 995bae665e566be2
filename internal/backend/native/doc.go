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

// Package native implements the exclusive cell contract with the CPU's own
// load-exclusive/store-exclusive instructions (LDXP/STXP on arm64,
// LDREXD/STREXD on arm with GOARM=7, LQARX/STQCX. on ppc64). Builds for
// GOARM=5 or 6 report the backend unavailable.
//
// A hardware reservation cannot be held across Go calls: the goroutine may
// be preempted or moved to another thread, and the runtime issues exclusives
// of its own. The cell therefore keeps a (value, version) pair like the
// tagged backend, and a conditional store runs the whole
// load-exclusive/compare/store-exclusive sequence in one assembly routine.
// A store-exclusive that fails while the pair still matches lost its
// reservation spuriously and is retried inside that routine; a mismatch is
// a genuine conflict and the pair just loaded is handed back as the fresh
// link. No reservation outlives a call.
package native
