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


// Package journal keeps a local record of finished telemetry spans.
//
// The journal is a BadgerDB store written by Exporter, an OpenTelemetry span
// exporter. Each search interaction and each provider span becomes one
// SpanRecord, keyed by end time so recent activity and time-bounded
// statistics are cheap range scans.
//
// Query text is never stored. Records carry only a content hash of the query
// (see core.IDFromContent), enough to group repeated queries without keeping
// a search history.
package journal
