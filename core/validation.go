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


package core

import "fmt"

// ValidateResult validates a Result according to domain rules.
//
// Validation rules:
//   - ProviderID must not be empty
//   - Title must not be empty
//
// NOT validated:
//   - Subtitle and Value (providers may leave them empty)
//   - ID (0 is valid for results built by hand)
func ValidateResult(result *Result) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidResult)
	}

	if result.ProviderID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidResult, ErrEmptyProviderID)
	}

	if result.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidResult, ErrEmptyTitle)
	}

	return nil
}

// ValidateResults validates every result and returns the first failure
// annotated with its position.
func ValidateResults(results []Result) error {
	for i := range results {
		if err := ValidateResult(&results[i]); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}
