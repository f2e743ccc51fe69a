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

// Package noise contains the differential privacy mechanisms: Laplace and
// Gaussian noise for numeric query outputs and the Exponential mechanism for
// selecting among categorical candidates.
//
// Every mechanism draws from a *rand.Rand supplied by the caller. Passing
// nil makes the call own a fresh generator backed by crypto/rand.
package noise

import (
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/rand"
)

// Kind is an enum type. Its values are the supported mechanisms. The set is
// closed; switches over Kind are exhaustive.
type Kind int

// Mechanisms used to achieve differential privacy.
const (
	LaplaceNoise Kind = iota
	GaussianNoise
	ExponentialNoise
)

func (k Kind) String() string {
	switch k {
	case LaplaceNoise:
		return "Laplace"
	case GaussianNoise:
		return "Gaussian"
	case ExponentialNoise:
		return "Exponential"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ConfidenceInterval holds lower and upper bounds as float64 for the confidence interval.
type ConfidenceInterval struct {
	LowerBound, UpperBound float64
}

// Config contains the parameters of a mechanism.
type Config struct {
	Kind        Kind
	Epsilon     float64 // Privacy parameter ε. Required.
	Sensitivity float64 // Sensitivity of the query. Required.
	Delta       float64 // Privacy parameter δ. Required with Gaussian noise, must be 0 otherwise.
}

// Mechanism is a validated, immutable Config.
type Mechanism struct {
	cfg Config
}

// NewMechanism validates cfg and returns the corresponding mechanism.
func NewMechanism(cfg Config) (*Mechanism, error) {
	var err error
	switch cfg.Kind {
	case LaplaceNoise:
		err = checkArgsLaplace(cfg.Sensitivity, cfg.Epsilon, cfg.Delta)
	case GaussianNoise:
		err = checkArgsGaussian(cfg.Sensitivity, cfg.Epsilon, cfg.Delta)
	case ExponentialNoise:
		err = checkArgsExponential(cfg.Sensitivity, cfg.Epsilon, cfg.Delta)
	default:
		err = fmt.Errorf("%w: unknown mechanism %v", checks.ErrConfiguration, cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	return &Mechanism{cfg: cfg}, nil
}

// Config returns the parameters m was built from.
func (m *Mechanism) Config() Config {
	return m.cfg
}

// Scale returns the noise scale of m: the Laplace scale b, the Gaussian
// standard deviation σ, or the exponent factor ε/(2Δ) of the Exponential
// mechanism.
func (m *Mechanism) Scale() float64 {
	switch m.cfg.Kind {
	case LaplaceNoise:
		return LaplaceScale(m.cfg.Sensitivity, m.cfg.Epsilon)
	case GaussianNoise:
		return GaussianSigma(m.cfg.Sensitivity, m.cfg.Epsilon, m.cfg.Delta)
	case ExponentialNoise:
		return m.cfg.Epsilon / (2 * m.cfg.Sensitivity)
	}
	return 0
}

// AddNoise adds noise to x. It fails for the Exponential mechanism, which
// selects candidates instead of perturbing values.
func (m *Mechanism) AddNoise(x float64, r *rand.Rand) (float64, error) {
	r = rand.OrSecure(r)
	switch m.cfg.Kind {
	case LaplaceNoise:
		return addLaplace(x, m.cfg.Sensitivity, m.cfg.Epsilon, r), nil
	case GaussianNoise:
		return addGaussian(x, m.Scale(), r), nil
	case ExponentialNoise:
		return 0, fmt.Errorf("%w: the Exponential mechanism selects a candidate, use SelectIndex", checks.ErrInvalidInput)
	}
	return 0, fmt.Errorf("%w: unknown mechanism %v", checks.ErrConfiguration, m.cfg.Kind)
}

// SelectIndex returns the index of the candidate chosen by the Exponential
// mechanism for the given scores.
func (m *Mechanism) SelectIndex(scores []float64, r *rand.Rand) (int, error) {
	if m.cfg.Kind != ExponentialNoise {
		return 0, fmt.Errorf("%w: %v mechanism cannot select candidates", checks.ErrInvalidInput, m.cfg.Kind)
	}
	probs, err := exponentialProbabilities(scores, m.cfg.Sensitivity, m.cfg.Epsilon)
	if err != nil {
		return 0, err
	}
	return sampleIndex(probs, rand.OrSecure(r)), nil
}

// ConfidenceInterval computes an interval containing the raw value from
// which noised was computed with probability 1 - alpha.
func (m *Mechanism) ConfidenceInterval(noised, alpha float64) (ConfidenceInterval, error) {
	if err := checks.CheckAlpha(alpha); err != nil {
		return ConfidenceInterval{}, err
	}
	switch m.cfg.Kind {
	case LaplaceNoise:
		return computeConfidenceIntervalLaplace(noised, m.Scale(), alpha), nil
	case GaussianNoise:
		return computeConfidenceIntervalGaussian(noised, m.Scale(), alpha), nil
	case ExponentialNoise:
		return ConfidenceInterval{}, fmt.Errorf("%w: the Exponential mechanism has no confidence interval", checks.ErrInvalidInput)
	}
	return ConfidenceInterval{}, fmt.Errorf("%w: unknown mechanism %v", checks.ErrConfiguration, m.cfg.Kind)
}
