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

package noise

import (
	"errors"
	"math"
	"testing"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/rand"
	"github.com/Willie-Conway/Exploring-Information-Privacy/stattestutils"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestExponentialProbabilitiesSumToOne(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		scores  []float64
		epsilon float64
	}{
		{"single candidate", []float64{3}, 1},
		{"equal scores", []float64{1, 1, 1, 1}, 0.5},
		{"increasing scores", []float64{0, 1, 2, 3, 4}, 2},
		{"negative scores", []float64{-100, -5, -0.5}, 0.1},
		{"huge scores", []float64{1e6, 2e6, 3e6}, 10},
	} {
		probs, err := ExponentialProbabilities(tc.scores, 1, tc.epsilon)
		if err != nil {
			t.Fatalf("ExponentialProbabilities: when %s got err %v", tc.desc, err)
		}
		var sum float64
		for _, p := range probs {
			if p < 0 || math.IsNaN(p) {
				t.Errorf("ExponentialProbabilities: when %s got probability %f", tc.desc, p)
			}
			sum += p
		}
		if !nearEqual(sum, 1, 1e-12) {
			t.Errorf("ExponentialProbabilities: when %s probabilities sum to %f, want 1", tc.desc, sum)
		}
	}
}

func TestExponentialProbabilitiesValues(t *testing.T) {
	got, err := ExponentialProbabilities([]float64{0, 2}, 1, 1)
	if err != nil {
		t.Fatalf("ExponentialProbabilities: %v", err)
	}
	// Weights are exp(0) and exp(1·2/2) = e.
	want := []float64{1 / (1 + math.E), math.E / (1 + math.E)}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("ExponentialProbabilities: mismatch (-want +got):\n%s", diff)
	}
}

func TestExponentialLargeEpsilonSelectsBest(t *testing.T) {
	scores := []float64{1, 5, 2, 4}
	prev := 0.0
	for _, epsilon := range []float64{0.01, 0.1, 1, 10, 100, 1e6} {
		probs, err := ExponentialProbabilities(scores, 1, epsilon)
		if err != nil {
			t.Fatalf("ExponentialProbabilities(epsilon=%f): %v", epsilon, err)
		}
		if probs[1] < prev {
			t.Errorf("probability of the best candidate decreased from %f to %f at epsilon %f", prev, probs[1], epsilon)
		}
		prev = probs[1]
	}
	if prev < 1-1e-9 {
		t.Errorf("probability of the best candidate at epsilon 1e6 = %f, want approximately 1", prev)
	}

	r := rand.NewSeeded(3)
	for i := 0; i < 100; i++ {
		got, err := Exponential([]string{"a", "b", "c", "d"}, scores, 1, 1e6, r)
		if err != nil {
			t.Fatalf("Exponential: %v", err)
		}
		if got != "b" {
			t.Fatalf("Exponential with epsilon 1e6: got %q, want %q", got, "b")
		}
	}
}

// ε/(2Δ) overflows to +Inf here; the best candidates still share all the
// probability mass.
func TestExponentialOverflowingFactor(t *testing.T) {
	for _, tc := range []struct {
		scores []float64
		want   []float64
	}{
		{[]float64{1, 2, 3}, []float64{0, 0, 1}},
		{[]float64{3, 1, 3}, []float64{0.5, 0, 0.5}},
		{[]float64{-1e308, 1e308}, []float64{0, 1}},
	} {
		probs, err := ExponentialProbabilities(tc.scores, 1e-10, 1e300)
		if err != nil {
			t.Fatalf("ExponentialProbabilities(%v): %v", tc.scores, err)
		}
		if diff := cmp.Diff(tc.want, probs); diff != "" {
			t.Errorf("ExponentialProbabilities(%v) mismatch (-want +got):\n%s", tc.scores, diff)
		}
	}

	r := rand.NewSeeded(9)
	for i := 0; i < 100; i++ {
		got, err := Exponential([]string{"a", "b", "c"}, []float64{1, 2, 3}, 1e-10, 1e300, r)
		if err != nil {
			t.Fatalf("Exponential: %v", err)
		}
		if got != "c" {
			t.Fatalf("Exponential with an overflowing factor: got %q, want %q", got, "c")
		}
	}
}

func TestExponentialSamplingFrequencies(t *testing.T) {
	const n = 30000
	scores := []float64{0, 1, 2}
	want, err := ExponentialProbabilities(scores, 1, 1)
	if err != nil {
		t.Fatalf("ExponentialProbabilities: %v", err)
	}
	r := rand.NewSeeded(17)
	draws := make([]int, n)
	for i := range draws {
		idx, err := Exponential([]int{0, 1, 2}, scores, 1, 1, r)
		if err != nil {
			t.Fatalf("Exponential: %v", err)
		}
		draws[i] = idx
	}
	for i, got := range stattestutils.Frequencies(draws, len(scores)) {
		if !nearEqual(got, want[i], 0.015) {
			t.Errorf("candidate %d selected with frequency %f, want %f", i, got, want[i])
		}
	}
}

func TestExponentialInvalidInput(t *testing.T) {
	r := rand.NewSeeded(1)
	for _, tc := range []struct {
		desc       string
		candidates []string
		scores     []float64
		wantErr    error
	}{
		{"empty candidate set", []string{}, []float64{}, checks.ErrInvalidInput},
		{"more candidates than scores", []string{"a", "b"}, []float64{1}, checks.ErrInvalidInput},
		{"more scores than candidates", []string{"a"}, []float64{1, 2}, checks.ErrInvalidInput},
		{"NaN score", []string{"a", "b"}, []float64{1, math.NaN()}, checks.ErrInvalidInput},
	} {
		if _, err := Exponential(tc.candidates, tc.scores, 1, 1, r); !errors.Is(err, tc.wantErr) {
			t.Errorf("Exponential: when %s got err %v, want %v", tc.desc, err, tc.wantErr)
		}
	}
	if _, err := Exponential([]string{"a"}, []float64{1}, 0, 1, r); !errors.Is(err, checks.ErrConfiguration) {
		t.Errorf("Exponential with zero sensitivity: got err %v, want ErrConfiguration", err)
	}
	if _, err := Exponential([]string{"a"}, []float64{1}, 1, -1, r); !errors.Is(err, checks.ErrConfiguration) {
		t.Errorf("Exponential with negative epsilon: got err %v, want ErrConfiguration", err)
	}
}
