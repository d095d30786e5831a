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


package provider

// Provider is a pluggable search source capable of answering a subset of queries.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ID returns a stable identifier used for telemetry correlation.
	ID() string

	// SupportsQuery reports whether the provider can answer the query.
	// It must not block.
	SupportsQuery(query string) bool

	// Search starts answering the query and returns the pending batches.
	// It must not block waiting for results; work happens asynchronously and
	// is reported by settling the returned batches.
	Search(query string) []*Batch
}

// Source exposes the currently loaded providers.
type Source interface {
	// Providers returns the loaded providers, or nil if none are loaded yet.
	// Callers must treat the returned slice as read-only.
	Providers() []Provider
}
