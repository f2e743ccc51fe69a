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

// Package stattestutils provides basic statistical utility functions.
//
// This package is not optimized for performance or speed and is only intended
// to be used in tests.
package stattestutils

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SampleMean returns the mean of a slice, or 0 for an empty slice.
func SampleMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// SampleVariance returns the population variance of a slice: the mean of
// the squared distances to the sample mean.
func SampleVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(values, nil)
	return variance
}

// LaplaceVariance returns the variance 2b² of a Laplace distribution with scale b.
func LaplaceVariance(scale float64) float64 {
	return 2 * scale * scale
}

// Frequencies returns the empirical frequency of every index in [0, n) among
// the given draws.
func Frequencies(draws []int, n int) []float64 {
	freqs := make([]float64, n)
	if len(draws) == 0 {
		return freqs
	}
	for _, d := range draws {
		freqs[d]++
	}
	for i := range freqs {
		freqs[i] /= float64(len(draws))
	}
	return freqs
}

// NearEqualRelative reports whether got is within a fraction tol of want.
func NearEqualRelative(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol*math.Abs(want)
}
