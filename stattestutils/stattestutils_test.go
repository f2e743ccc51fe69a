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

package stattestutils

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSampleMean(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		values []float64
		want   float64
	}{
		{"empty slice", []float64{}, 0},
		{"single value", []float64{3.5}, 3.5},
		{"several values", []float64{1, 2, 3, 4}, 2.5},
		{"negative values", []float64{-1, -3}, -2},
	} {
		if got := SampleMean(tc.values); !cmp.Equal(got, tc.want, cmpopts.EquateApprox(0, 1e-12)) {
			t.Errorf("SampleMean: when %s got %f, want %f", tc.desc, got, tc.want)
		}
	}
}

func TestSampleVariance(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		values []float64
		want   float64
	}{
		{"empty slice", []float64{}, 0},
		{"constant values", []float64{2, 2, 2}, 0},
		{"two values", []float64{1, 3}, 1},
		{"several values", []float64{1, 2, 3, 4}, 1.25},
	} {
		if got := SampleVariance(tc.values); !cmp.Equal(got, tc.want, cmpopts.EquateApprox(0, 1e-12)) {
			t.Errorf("SampleVariance: when %s got %f, want %f", tc.desc, got, tc.want)
		}
	}
}

func TestFrequencies(t *testing.T) {
	got := Frequencies([]int{0, 1, 1, 3}, 4)
	want := []float64{0.25, 0.5, 0, 0.25}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Frequencies: mismatch (-want +got):\n%s", diff)
	}
}

func TestLaplaceVarianceAndRelative(t *testing.T) {
	if got := LaplaceVariance(1); got != 2 {
		t.Errorf("LaplaceVariance(1): got %f, want 2", got)
	}
	if !NearEqualRelative(2.1, 2, 0.1) {
		t.Errorf("NearEqualRelative(2.1, 2, 0.1): got false, want true")
	}
	if NearEqualRelative(2.3, 2, 0.1) {
		t.Errorf("NearEqualRelative(2.3, 2, 0.1): got true, want false")
	}
	if !NearEqualRelative(math.Ln2, math.Ln2, 0) {
		t.Errorf("NearEqualRelative of equal values: got false, want true")
	}
}
