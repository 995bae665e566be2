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

import "github.com/srediag/exclusive/api"

type observed struct {
	api.Backend
	strategy api.Strategy
	obs      api.Observer
}

func (o *observed) Store(w api.Word, ord api.Ordering) {
	o.Backend.Store(w, ord)
	o.obs.DirectWrite(o.strategy)
}

func (o *observed) Swap(w api.Word, ord api.Ordering) api.Word {
	old := o.Backend.Swap(w, ord)
	o.obs.DirectWrite(o.strategy)
	return old
}

func (o *observed) LoadLinked(ord api.Ordering) api.Link {
	l := o.Backend.LoadLinked(ord)
	o.obs.LinkedLoad(o.strategy)
	return l
}

func (o *observed) StoreConditional(l api.Link, w api.Word, ord api.Ordering) (api.Link, bool) {
	fresh, ok := o.Backend.StoreConditional(l, w, ord)
	o.obs.ConditionalStore(o.strategy, ok)
	return fresh, ok
}

func (o *observed) TryStoreConditional(l api.Link, w api.Word, ord api.Ordering) bool {
	ok := o.Backend.TryStoreConditional(l, w, ord)
	o.obs.ConditionalStore(o.strategy, ok)
	return ok
}
