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
)

// granularityParam determines the resolution of the numerical noise relative
// to the scale of the distribution. Larger values give finer noise but raise
// the chance of overflow in the geometric sampler; 2⁴⁰ keeps that chance
// below 2⁻¹⁰⁰⁰ for every epsilon of at least 2⁻⁵⁰.
//
// This parameter should be a power of 2.
var granularityParam = math.Exp2(40)

// Laplace adds Laplace noise of scale sensitivity/epsilon to x. The output is
// ε-differentially private for any query whose L1 sensitivity is at most
// sensitivity.
//
// The noise is drawn with a geometric sampling mechanism on a power-of-two
// grid, which is robust against privacy leaks due to artifacts of floating
// point arithmetic.
func Laplace(x, sensitivity, epsilon float64, r *rand.Rand) (float64, error) {
	if err := checkArgsLaplace(sensitivity, epsilon, 0); err != nil {
		return 0, err
	}
	return addLaplace(x, sensitivity, epsilon, rand.OrSecure(r)), nil
}

// LaplaceScale returns the scale b = sensitivity/epsilon of the Laplace
// distribution used by Laplace.
func LaplaceScale(sensitivity, epsilon float64) float64 {
	return sensitivity / epsilon
}

func checkArgsLaplace(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilonVeryStrict(epsilon); err != nil {
		return err
	}
	if err := checks.CheckNoDelta(delta); err != nil {
		return err
	}
	if math.IsNaN(laplaceGranularity(sensitivity, epsilon)) {
		return fmt.Errorf("%w: Laplace scale %e/%e is %e, must be finite and representable on the noise grid",
			checks.ErrConfiguration, sensitivity, epsilon, LaplaceScale(sensitivity, epsilon))
	}
	return nil
}

// laplaceGranularity returns the grid spacing of the Laplace noise, or NaN
// if the scale overflows or underflows.
func laplaceGranularity(sensitivity, epsilon float64) float64 {
	return ceilPowerOfTwo(LaplaceScale(sensitivity, epsilon) / granularityParam)
}

// addLaplace adds Laplace noise scaled to the given epsilon and sensitivity.
func addLaplace(x, sensitivity, epsilon float64, r *rand.Rand) float64 {
	granularity := laplaceGranularity(sensitivity, epsilon)
	sample := twoSidedGeometric(granularity*epsilon/(sensitivity+granularity), r)
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity
}

// computeConfidenceIntervalLaplace computes a confidence interval that
// contains the raw value from which noisedX is computed with probability
// 1 - alpha, for Laplace noise of scale lambda.
func computeConfidenceIntervalLaplace(noisedX, lambda, alpha float64) ConfidenceInterval {
	// The distribution is symmetric, so -z is the (1 - alpha/2)-quantile.
	// alpha/2 is represented more accurately than 1 - alpha/2 for small alpha.
	z := inverseCDFLaplace(lambda, alpha/2)
	return ConfidenceInterval{LowerBound: noisedX + z, UpperBound: noisedX - z}
}

// inverseCDFLaplace computes the quantile z satisfying Pr[Y <= z] = p for a
// zero-mean Laplace random variable Y of scale lambda.
func inverseCDFLaplace(lambda, p float64) float64 {
	if p < 0.5 {
		return lambda * math.Log(2*p)
	}
	return -lambda * math.Log(2*(1-p))
}

// geometric draws the number of Bernoulli trials until the first success,
// where the success probability is p = 1 - e^-λ. The sample is truncated to
// the max int64 value.
//
// To keep the truncation probability below 10⁻⁶, λ must be greater than 2⁻⁵⁹.
func geometric(lambda float64, r *rand.Rand) int64 {
	if r.Uniform() > -1.0*math.Expm1(-1.0*lambda*math.MaxInt64) {
		return math.MaxInt64
	}

	// Binary search over (left, right]: each step keeps the subinterval that
	// holds the sample according to its probability mass.
	var left int64 = 0
	var right int64 = math.MaxInt64

	for left+1 < right {
		// The midpoint splits the probability mass of the interval roughly in
		// half, which converges faster than the arithmetic mean for large p.
		mid := left - int64(math.Floor((math.Log(0.5)+math.Log1p(math.Exp(lambda*float64(left-right))))/lambda))
		if mid <= left {
			mid = left + 1
		} else if mid >= right {
			mid = right - 1
		}

		// q = Pr[X ≤ mid | left < X ≤ right], approximately one half.
		q := math.Expm1(lambda*float64(left-mid)) / math.Expm1(lambda*float64(left-right))
		if r.Uniform() <= q {
			right = mid
		} else {
			left = mid
		}
	}
	return right
}

// twoSidedGeometric draws a sample from a geometric distribution mirrored
// at 0.
func twoSidedGeometric(lambda float64, r *rand.Rand) int64 {
	var sample int64 = 0
	var sign int64 = -1
	// 0 is kept only with a positive sign, otherwise its probability would
	// be doubled.
	for sample == 0 && sign == -1 {
		sample = geometric(lambda, r) - 1
		sign = int64(r.Sign())
	}
	return sample * sign
}
