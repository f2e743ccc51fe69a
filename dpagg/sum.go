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
	"math"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/noise"
	"github.com/Willie-Conway/Exploring-Information-Privacy/rand"
)

// BoundedSum calculates a differentially private sum of a collection of
// float64 values.
//
// Each entry is clamped to [Lower, Upper] before being added, so a privacy
// unit changes the sum of a partition by at most
// MaxContributionsPerPartition·max(|Lower|, |Upper|).
//
// Not thread-safe.
type BoundedSum struct {
	// Parameters
	lower float64
	upper float64
	mech  *noise.Mechanism
	r     *rand.Rand

	// State variables
	sum          float64
	noisedResult float64
	state        aggregationState
}

// BoundedSumOptions contains the options necessary to initialize a BoundedSum.
type BoundedSumOptions struct {
	Epsilon                      float64 // Privacy parameter ε. Required.
	Delta                        float64 // Privacy parameter δ. Required with Gaussian noise, must be 0 with Laplace noise.
	MaxPartitionsContributed     int64   // How many distinct partitions may a single privacy unit contribute to? Defaults to 1.
	MaxContributionsPerPartition int64   // How many times may a single privacy unit contribute to a single partition? Defaults to 1.
	// Lower and Upper bounds for clamping. At least one must be non-zero;
	// Lower must not exceed Upper.
	Lower, Upper float64
	Noise        noise.Kind // Type of noise used. Defaults to Laplace noise.
	Rand         *rand.Rand // Source of the noise. Defaults to a crypto-backed generator.
}

// NewBoundedSum returns a new BoundedSum, initialized at 0.
func NewBoundedSum(opt *BoundedSumOptions) (*BoundedSum, error) {
	if opt == nil {
		opt = &BoundedSumOptions{}
	}
	if opt.Lower == 0 && opt.Upper == 0 {
		return nil, fmt.Errorf("%w: NewBoundedSum requires a non-default value for Lower or Upper", checks.ErrConfiguration)
	}
	if err := checks.CheckBoundsFloat64(opt.Lower, opt.Upper); err != nil {
		return nil, fmt.Errorf("NewBoundedSum: %w", err)
	}
	if opt.MaxContributionsPerPartition < 0 {
		return nil, fmt.Errorf("%w: MaxContributionsPerPartition is %d, must be at least 0", checks.ErrConfiguration, opt.MaxContributionsPerPartition)
	}
	perPartition := opt.MaxContributionsPerPartition
	if perPartition == 0 {
		perPartition = 1
	}
	lInf := float64(perPartition) * math.Max(math.Abs(opt.Lower), math.Abs(opt.Upper))
	mech, err := newMechanism(opt.Noise, opt.Epsilon, opt.Delta, opt.MaxPartitionsContributed, lInf)
	if err != nil {
		return nil, fmt.Errorf("NewBoundedSum: %w", err)
	}
	return &BoundedSum{
		lower: opt.Lower,
		upper: opt.Upper,
		mech:  mech,
		r:     rand.OrSecure(opt.Rand),
	}, nil
}

// Add adds e to the sum after clamping it to the bounds. NaN entries are
// skipped: a single NaN would turn the sum into NaN and reveal its presence.
func (bs *BoundedSum) Add(e float64) error {
	if err := bs.state.checkDefault("BoundedSum", "be amended"); err != nil {
		return err
	}
	if math.IsNaN(e) {
		return nil
	}
	clamped, err := ClampFloat64(e, bs.lower, bs.upper)
	if err != nil {
		return err
	}
	bs.sum += clamped
	return nil
}

// Merge merges bs2 into bs. bs2 is consumed by this operation.
func (bs *BoundedSum) Merge(bs2 *BoundedSum) error {
	if err := bs.state.checkDefault("BoundedSum", "merge"); err != nil {
		return err
	}
	if err := bs2.state.checkDefault("BoundedSum", "be merged"); err != nil {
		return err
	}
	if bs.lower != bs2.lower || bs.upper != bs2.upper || bs.mech.Config() != bs2.mech.Config() {
		return fmt.Errorf("%w: checkMergeBoundedSum: bs and bs2 are not compatible", checks.ErrInvalidInput)
	}
	bs.sum += bs2.sum
	bs2.state = Merged
	return nil
}

// Result returns a differentially private estimate of the sum of the
// clamped entries. The method can be called only once.
func (bs *BoundedSum) Result() (float64, error) {
	if err := bs.state.checkDefault("BoundedSum", "return a result"); err != nil {
		return 0, err
	}
	noised, err := bs.mech.AddNoise(bs.sum, bs.r)
	if err != nil {
		return 0, err
	}
	bs.state = ResultReturned
	bs.noisedResult = noised
	return noised, nil
}

// ComputeConfidenceInterval computes a confidence interval that contains
// the true sum with probability at least 1 - alpha. It can only be called
// after Result.
func (bs *BoundedSum) ComputeConfidenceInterval(alpha float64) (noise.ConfidenceInterval, error) {
	if bs.state != ResultReturned {
		return noise.ConfidenceInterval{}, fmt.Errorf("%w: Result must be called before ComputeConfidenceInterval, state is %v", checks.ErrInvalidInput, bs.state)
	}
	return bs.mech.ConfidenceInterval(bs.noisedResult, alpha)
}
