//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package checks

import "errors"

// Errors returned by the privacy packages. They are always wrapped with
// context, so callers should match them with errors.Is.
var (
	// ErrSchema is returned when a named column is absent from a dataset
	// schema, or when a schema itself is malformed.
	ErrSchema = errors.New("schema error")
	// ErrConfiguration is returned for invalid k, l, t, epsilon, delta,
	// sensitivity or other numeric parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnmappedValue is returned when a generalization hierarchy has no
	// entry for a value present in the column being generalized.
	ErrUnmappedValue = errors.New("unmapped value")
	// ErrInvalidDistribution is returned when the sensitive attribute has no
	// consistent numeric or ordinal encoding for t-closeness.
	ErrInvalidDistribution = errors.New("invalid distribution")
	// ErrInvalidInput is returned when exponential mechanism candidates and
	// scores are empty or of different lengths.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnachievable is returned in strict mode when k-anonymity cannot be
	// reached after exhausting every hierarchy.
	ErrUnachievable = errors.New("k-anonymity unachievable")
)
