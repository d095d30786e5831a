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


package journal

import "errors"

var (
	// ErrJournalClosed indicates that the journal has been closed.
	ErrJournalClosed = errors.New("journal is closed")

	// ErrSerializationFailed indicates a record could not be decoded.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")

	// ErrNotDirectory indicates that the journal path exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)
