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
	"fmt"
	"math"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Exponential selects one of candidates with probability proportional to
// exp(ε·score/(2·sensitivity)). candidates and scores must be non-empty and
// of equal length.
func Exponential[T any](candidates []T, scores []float64, sensitivity, epsilon float64, r *rand.Rand) (T, error) {
	var zero T
	if len(candidates) != len(scores) {
		return zero, fmt.Errorf("%w: %d candidates but %d scores", checks.ErrInvalidInput, len(candidates), len(scores))
	}
	probs, err := ExponentialProbabilities(scores, sensitivity, epsilon)
	if err != nil {
		return zero, err
	}
	return candidates[sampleIndex(probs, rand.OrSecure(r))], nil
}

// ExponentialProbabilities returns the selection probability of every score
// under the Exponential mechanism. The probabilities sum to 1.
func ExponentialProbabilities(scores []float64, sensitivity, epsilon float64) ([]float64, error) {
	if err := checkArgsExponential(sensitivity, epsilon, 0); err != nil {
		return nil, err
	}
	return exponentialProbabilities(scores, sensitivity, epsilon)
}

func checkArgsExponential(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilonStrict(epsilon); err != nil {
		return err
	}
	return checks.CheckNoDelta(delta)
}

func exponentialProbabilities(scores []float64, sensitivity, epsilon float64) ([]float64, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: the candidate set is empty", checks.ErrInvalidInput)
	}
	for i, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: score %d is %f, must be finite", checks.ErrInvalidInput, i, s)
		}
	}
	// Shifting by the maximum score leaves the normalized distribution
	// unchanged and keeps every exponent non-positive. Epsilon is applied
	// last so the best scores get an exponent of exactly 0 even when
	// ε/(2Δ) overflows.
	top := floats.Max(scores)
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp((s - top) / 2 / sensitivity * epsilon)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs, nil
}

// sampleIndex draws an index according to probs.
func sampleIndex(probs []float64, r *rand.Rand) int {
	return int(distuv.NewCategorical(probs, r).Rand())
}
