// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search fans queries out to providers and aggregates their results.
//
// The Store owns the current query and the merged result set. SetQuery
// dispatches the query to every provider that supports it and merges each
// batch into the result set as it settles, in settlement order:
//
//	store, err := search.NewStore(registry, recorder)
//	if err != nil {
//	    return err
//	}
//	sub := store.Subscribe(func() {
//	    render(store.Results())
//	})
//	defer store.Unsubscribe(sub)
//	store.SetQuery("weather")
//
// # Staleness
//
// Every SetQuery call starts a new dispatch, even when the query text is
// unchanged. Batches belonging to an earlier dispatch are discarded when they
// settle; in-flight provider work is never cancelled, only ignored.
//
// # Clearing
//
// The previous result set stays visible until the first batch of the new
// dispatch is accepted, at which point it is cleared and replaced. A dispatch
// with no batches at all clears the result set immediately.
package search
