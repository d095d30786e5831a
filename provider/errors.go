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

import "errors"

var (
	// ErrLoaderRequired is returned when a registry is created without a loader.
	ErrLoaderRequired = errors.New("provider loader required")

	// ErrRejected is the error a batch settles with when rejected without a cause.
	ErrRejected = errors.New("batch rejected")

	// ErrInvalidSpec indicates a provider spec failed validation.
	ErrInvalidSpec = errors.New("invalid provider spec")

	// ErrUnknownKind indicates no factory is registered for a spec's kind.
	ErrUnknownKind = errors.New("unknown provider kind")

	// ErrDuplicateProvider indicates two specs share the same name.
	ErrDuplicateProvider = errors.New("duplicate provider")
)
