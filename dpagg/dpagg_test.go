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
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// This file contains values and functions used to test DP aggregations.

var (
	ln3     = math.Log(3)
	tenfive = math.Pow10(-5)
	// hugeEpsilon makes the noise negligible, so results can be compared
	// with the raw aggregate.
	hugeEpsilon = 1e9
)

func ApproxEqual(x, y float64) bool {
	return cmp.Equal(x, y, cmpopts.EquateApprox(0, tenfive))
}

func TestClampFloat64(t *testing.T) {
	for _, tc := range []struct {
		e, lower, upper float64
		want            float64
		wantErr         bool
	}{
		{1, 0, 2, 1, false},
		{-1, 0, 2, 0, false},
		{3, 0, 2, 2, false},
		{0.5, 0.5, 0.5, 0.5, false},
		{1, 2, 0, 0, true},
	} {
		got, err := ClampFloat64(tc.e, tc.lower, tc.upper)
		if (err != nil) != tc.wantErr {
			t.Errorf("ClampFloat64(%v, %v, %v): got err %v, wantErr %t", tc.e, tc.lower, tc.upper, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ClampFloat64(%v, %v, %v): got %v, want %v", tc.e, tc.lower, tc.upper, got, tc.want)
		}
	}
}

func TestAggregationStateString(t *testing.T) {
	for _, tc := range []struct {
		s    aggregationState
		want string
	}{
		{Default, "Default"},
		{Merged, "Merged"},
		{ResultReturned, "ResultReturned"},
		{aggregationState(7), "aggregationState(7)"},
	} {
		if got := tc.s.String(); got != tc.want {
			t.Errorf("String(): got %q, want %q", got, tc.want)
		}
	}
}
