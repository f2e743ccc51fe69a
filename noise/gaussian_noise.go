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
	log "github.com/golang/glog"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// The square root of the maximum number n of Bernoulli trials from which a binomial
	// sample is drawn. Larger values result in more fine-grained noise, but increase the
	// chance of sampling inaccuracies due to overflows. The probability of such an event
	// will be roughly 2⁻⁴⁵ or less, if the square root is set to 2⁵⁷.
	binomialBound float64 = math.Exp2(57.0)
	// Bound on the two-sided geometric samples k used to build a binomial sample,
	// so that m = (k + l) * (sqrt(2 * n) + 1) cannot overflow. A single sample is
	// bounded with probability 2⁻⁴⁵.
	geometricBound int64 = (math.MaxInt64 / int64(math.Round(math.Sqrt2*binomialBound+1.0))) - 1
)

// Gaussian adds Gaussian noise with standard deviation
// sqrt(2·ln(1.25/δ))·sensitivity/ε to x, giving (ε,δ)-differential privacy
// for queries of L2 sensitivity at most sensitivity.
//
// The calibration is the classic analytic approximation, which only holds for
// ε < 1; larger values are accepted but logged as a warning.
func Gaussian(x, sensitivity, epsilon, delta float64, r *rand.Rand) (float64, error) {
	if err := checkArgsGaussian(sensitivity, epsilon, delta); err != nil {
		return 0, err
	}
	return addGaussian(x, GaussianSigma(sensitivity, epsilon, delta), rand.OrSecure(r)), nil
}

// GaussianSigma returns sqrt(2·ln(1.25/δ))·sensitivity/ε.
func GaussianSigma(sensitivity, epsilon, delta float64) float64 {
	return math.Sqrt(2*math.Log(1.25/delta)) * sensitivity / epsilon
}

func checkArgsGaussian(sensitivity, epsilon, delta float64) error {
	if err := checks.CheckSensitivity(sensitivity); err != nil {
		return err
	}
	if err := checks.CheckEpsilonVeryStrict(epsilon); err != nil {
		return err
	}
	if err := checks.CheckDeltaStrict(delta); err != nil {
		return err
	}
	if sigma := GaussianSigma(sensitivity, epsilon, delta); math.IsNaN(gaussianGranularity(sigma)) {
		return fmt.Errorf("%w: Gaussian sigma is %e, must be finite and representable on the noise grid", checks.ErrConfiguration, sigma)
	}
	if epsilon >= 1 {
		log.Warningf("Gaussian mechanism with epsilon %f: the sqrt(2ln(1.25/delta)) calibration is only valid for epsilon < 1", epsilon)
	}
	return nil
}

// gaussianGranularity returns the grid spacing of Gaussian noise of scale σ,
// or NaN if σ overflows or underflows.
func gaussianGranularity(sigma float64) float64 {
	return ceilPowerOfTwo(2.0 * sigma / binomialBound)
}

// addGaussian adds Gaussian noise of scale σ to the specified float64.
func addGaussian(x, sigma float64, r *rand.Rand) float64 {
	granularity := gaussianGranularity(sigma)

	// sqrtN lies between binomialBound / 2 and binomialBound, so the binomial
	// distribution has enough trials to closely approximate a Gaussian.
	sqrtN := 2.0 * sigma / granularity
	sample := symmetricBinomial(sqrtN, r)
	return roundToMultipleOfPowerOfTwo(x, granularity) + float64(sample)*granularity
}

// symmetricBinomial returns a random sample m where m + n / 2 is drawn from a
// binomial distribution of n fair Bernoulli trials, using Bringmann et al.'s
// rejection sampling ("Internal DLA: Efficient Simulation of a Physical
// Growth Model").
func symmetricBinomial(sqrtN float64, r *rand.Rand) int64 {
	stepSize := int64(math.Round(math.Sqrt2*sqrtN + 1.0))
	for {
		// Subtracting 1 counts the failures before the first success.
		boundedGeometricSample := int64(math.Min(r.Geometric()-1.0, float64(geometricBound)))
		twoSidedGeometricSample := boundedGeometricSample
		if r.Boolean() {
			twoSidedGeometricSample = -twoSidedGeometricSample - 1
		}

		result := stepSize*twoSidedGeometricSample + r.I63n(stepSize)
		resultProbability := binomialProbability(sqrtN, result)
		rejectProbability := r.Uniform()
		if resultProbability > 0.0 &&
			rejectProbability < resultProbability*float64(stepSize)*math.Pow(2.0, float64(boundedGeometricSample))/4.0 {
			return result
		}
	}
}

// binomialProbability approximates the probability of m + n / 2 under a
// binomial distribution of n fair Bernoulli trials.
func binomialProbability(sqrtN float64, m int64) float64 {
	if math.Abs(float64(m)) > sqrtN*math.Sqrt(math.Log(sqrtN)/2.0) {
		return 0.0
	}
	return (math.Sqrt(2.0/math.Pi) / sqrtN) *
		math.Exp((-2.0*float64(m)*float64(m))/(sqrtN*sqrtN)) *
		(1 - 0.4*math.Pow(2.0, 1.5)*math.Pow(math.Log(sqrtN), 1.5)/sqrtN)
}

// computeConfidenceIntervalGaussian computes a confidence interval that
// contains the raw value from which noisedX is computed with probability
// 1 - alpha, for Gaussian noise of standard deviation sigma.
func computeConfidenceIntervalGaussian(noisedX, sigma, alpha float64) ConfidenceInterval {
	z := distuv.Normal{Mu: 0, Sigma: sigma}.Quantile(alpha / 2)
	return ConfidenceInterval{LowerBound: noisedX + z, UpperBound: noisedX - z}
}
