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

// Package tagged implements the exclusive cell contract with a version-tagged
// double-width compare-and-swap.
//
// The cell is a (value, version) pair. A linked load reads the pair; a
// conditional store swaps in (new, version+1) only if the pair is unchanged.
// On amd64 the pair is two 64-bit words updated by CMPXCHG16B. On 386 it is
// two 32-bit halves of one 64-bit word updated by CMPXCHG8B.
package tagged
