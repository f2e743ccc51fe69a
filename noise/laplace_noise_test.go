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
	"github.com/grd/stat"
)

func TestLaplaceScale(t *testing.T) {
	for _, tc := range []struct {
		sensitivity, epsilon, want float64
	}{
		{1, 1, 1},
		{1, 0.5, 2},
		{3, ln3, 3 / ln3},
		{0.25, 4, 0.0625},
	} {
		if got := LaplaceScale(tc.sensitivity, tc.epsilon); got != tc.want {
			t.Errorf("LaplaceScale(%f, %f): got %f, want %f", tc.sensitivity, tc.epsilon, got, tc.want)
		}
	}
}

func TestLaplaceStatistics(t *testing.T) {
	const numberOfSamples = 125000
	r := rand.NewSeeded(2020)
	for _, tc := range []struct {
		sensitivity, epsilon, mean, variance float64
	}{
		{
			sensitivity: 1.0,
			epsilon:     1.0,
			mean:        0.0,
			variance:    2.0,
		},
		{
			sensitivity: 1.0,
			epsilon:     ln3,
			mean:        45941223.02107,
			variance:    2.0 / (ln3 * ln3),
		},
		{
			sensitivity: 2.0,
			epsilon:     2.0 * ln3,
			mean:        0.0,
			variance:    2.0 / (ln3 * ln3),
		},
	} {
		noisedSamples := make(stat.Float64Slice, numberOfSamples)
		for i := 0; i < numberOfSamples; i++ {
			noisedSamples[i], _ = Laplace(tc.mean, tc.sensitivity, tc.epsilon, r)
		}
		sampleMean, sampleVariance := stat.Mean(noisedSamples), stat.Variance(noisedSamples)
		// The sample mean is approximately Gaussian with standard deviation
		// sqrt(variance / numberOfSamples); 4.41717 is its 99.9995% quantile.
		meanErrorTolerance := 4.41717 * math.Sqrt(tc.variance/float64(numberOfSamples))
		// The sample variance of Laplace samples has standard deviation
		// sqrt(5) * variance / sqrt(numberOfSamples).
		varianceErrorTolerance := 4.41717 * math.Sqrt(5.0) * tc.variance / math.Sqrt(float64(numberOfSamples))

		if !nearEqual(sampleMean, tc.mean, meanErrorTolerance) {
			t.Errorf("got mean = %f, want %f (parameters %+v)", sampleMean, tc.mean, tc)
		}
		if !nearEqual(sampleVariance, tc.variance, varianceErrorTolerance) {
			t.Errorf("got variance = %f, want %f (parameters %+v)", sampleVariance, tc.variance, tc)
		}
	}
}

// A count of 100 released 10,000 times with sensitivity 1 and epsilon 1.
func TestLaplaceRepeatedRelease(t *testing.T) {
	const (
		trueValue   = 100.0
		sensitivity = 1.0
		epsilon     = 1.0
		n           = 10000
	)
	r := rand.NewSeeded(100)
	samples := make(stat.Float64Slice, n)
	for i := range samples {
		v, err := Laplace(trueValue, sensitivity, epsilon, r)
		if err != nil {
			t.Fatalf("Laplace: %v", err)
		}
		samples[i] = v
	}
	if mean := stat.Mean(samples); math.Abs(mean-trueValue) > 1.0 {
		t.Errorf("sample mean = %f, want within 1.0 of %f", mean, trueValue)
	}
	scale := LaplaceScale(sensitivity, epsilon)
	wantVariance := 2 * scale * scale
	if variance := stat.Variance(samples); math.Abs(variance-wantVariance) > 0.1*wantVariance {
		t.Errorf("sample variance = %f, want within 10%% of %f", variance, wantVariance)
	}
}

func TestLaplaceArgumentChecks(t *testing.T) {
	for _, tc := range []struct {
		desc                 string
		sensitivity, epsilon float64
	}{
		{"zero epsilon", 1, 0},
		{"negative epsilon", 1, -1},
		{"NaN epsilon", 1, math.NaN()},
		{"zero sensitivity", 0, 1},
		{"negative sensitivity", -2, 1},
		{"infinite sensitivity", math.Inf(1), 1},
		{"epsilon below 2^-50", 1, math.Exp2(-51)},
		{"scale overflows", 1e308, 1e-10},
		{"scale underflows", 1e-300, 1e300},
	} {
		if _, err := Laplace(0, tc.sensitivity, tc.epsilon, rand.NewSeeded(1)); !errors.Is(err, checks.ErrConfiguration) {
			t.Errorf("Laplace: when %s got err %v, want ErrConfiguration", tc.desc, err)
		}
	}
}

func TestInverseCDFLaplace(t *testing.T) {
	for _, tc := range []struct {
		lambda, p, want float64
	}{
		{1, 0.5, 0},
		{1, 0.25, math.Log(0.5)},
		{1, 0.75, -math.Log(0.5)},
		{2, 0.05, 2 * math.Log(0.1)},
	} {
		if got := inverseCDFLaplace(tc.lambda, tc.p); !nearEqual(got, tc.want, 1e-12) {
			t.Errorf("inverseCDFLaplace(%f, %f): got %f, want %f", tc.lambda, tc.p, got, tc.want)
		}
	}
}

func TestLaplaceConfidenceInterval(t *testing.T) {
	m, err := NewMechanism(Config{Kind: LaplaceNoise, Epsilon: 1, Sensitivity: 1})
	if err != nil {
		t.Fatalf("NewMechanism: %v", err)
	}
	got, err := m.ConfidenceInterval(10, 0.5)
	if err != nil {
		t.Fatalf("ConfidenceInterval: %v", err)
	}
	if !nearEqual(got.LowerBound, 10-math.Ln2, 1e-12) || !nearEqual(got.UpperBound, 10+math.Ln2, 1e-12) {
		t.Errorf("ConfidenceInterval(10, 0.5): got %+v, want [%f, %f]", got, 10-math.Ln2, 10+math.Ln2)
	}
	if _, err := m.ConfidenceInterval(10, 1.5); !errors.Is(err, checks.ErrConfiguration) {
		t.Errorf("ConfidenceInterval with alpha 1.5: got err %v, want ErrConfiguration", err)
	}

	// The interval should cover the raw value in roughly 1 - alpha of releases.
	r := rand.NewSeeded(5)
	const n, alpha = 20000, 0.1
	covered := 0
	for i := 0; i < n; i++ {
		noised, _ := m.AddNoise(0, r)
		ci, _ := m.ConfidenceInterval(noised, alpha)
		if ci.LowerBound <= 0 && 0 <= ci.UpperBound {
			covered++
		}
	}
	if rate := float64(covered) / n; !nearEqual(rate, 1-alpha, 0.01) {
		t.Errorf("coverage rate = %f, want approximately %f", rate, 1-alpha)
	}
}

func TestGeometricStatistics(t *testing.T) {
	const numberOfSamples = 50000
	r := rand.NewSeeded(8)
	for _, lambda := range []float64{0.1, 1.0, 2.5} {
		samples := make(stat.Float64Slice, numberOfSamples)
		for i := range samples {
			samples[i] = float64(geometric(lambda, r))
		}
		// A geometric distribution with success probability p = 1 - e^-λ has
		// mean 1/p and variance (1-p)/p².
		p := -math.Expm1(-lambda)
		mean, variance := 1/p, (1-p)/(p*p)
		tolerance := 4.41717 * math.Sqrt(variance/numberOfSamples)
		if got := stat.Mean(samples); !nearEqual(got, mean, tolerance) {
			t.Errorf("geometric(%f): got mean %f, want %f", lambda, got, mean)
		}
	}
}
