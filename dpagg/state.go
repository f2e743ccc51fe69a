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

package dpagg

import (
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
)

// aggregationState tracks the lifecycle of an aggregation. Entries can be
// added and aggregations merged only in the Default state.
type aggregationState int

// Aggregation states.
const (
	Default aggregationState = iota
	Merged
	ResultReturned
)

func (s aggregationState) String() string {
	switch s {
	case Default:
		return "Default"
	case Merged:
		return "Merged"
	case ResultReturned:
		return "ResultReturned"
	}
	return fmt.Sprintf("aggregationState(%d)", int(s))
}

func (s aggregationState) errorMessage() string {
	switch s {
	case Merged:
		return "object has been already merged"
	case ResultReturned:
		return "noised result is already computed and returned"
	}
	return ""
}

// checkDefault returns an error unless s is Default. op names the rejected
// operation.
func (s aggregationState) checkDefault(label, op string) error {
	if s != Default {
		return fmt.Errorf("%w: %s cannot %s: %s", checks.ErrInvalidInput, label, op, s.errorMessage())
	}
	return nil
}
