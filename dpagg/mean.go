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

// BoundedMean calculates a differentially private mean of a collection of
// float64 values.
//
// The mean is computed by dividing a noisy sum of the entries by a noisy
// count of the entries. Entries are normalized to their distance from the
// middle of the input range before summation, and the midpoint is added
// back in a post-processing step. A noisy count below 1 is replaced by 1.
// The privacy budget is split evenly between the sum and the count.
//
// Not thread-safe.
type BoundedMean struct {
	// Parameters
	lower    float64
	upper    float64
	midPoint float64

	// State variables
	normalizedSum *BoundedSum
	count         *Count
	state         aggregationState
}

// BoundedMeanOptions contains the options necessary to initialize a BoundedMean.
type BoundedMeanOptions struct {
	Epsilon                      float64 // Privacy parameter ε. Required.
	Delta                        float64 // Privacy parameter δ. Required with Gaussian noise, must be 0 with Laplace noise.
	MaxPartitionsContributed     int64   // How many distinct partitions may a single privacy unit contribute to? Defaults to 1.
	MaxContributionsPerPartition int64   // How many times may a single privacy unit contribute to a single partition? Defaults to 1.
	// Lower and Upper bounds for clamping. Lower must be strictly below Upper.
	Lower, Upper float64
	Noise        noise.Kind // Type of noise used. Defaults to Laplace noise.
	Rand         *rand.Rand // Source of the noise. Defaults to a crypto-backed generator.
}

// NewBoundedMean returns a new BoundedMean.
func NewBoundedMean(opt *BoundedMeanOptions) (*BoundedMean, error) {
	if opt == nil {
		opt = &BoundedMeanOptions{}
	}
	if err := checks.CheckBoundsFloat64(opt.Lower, opt.Upper); err != nil {
		return nil, fmt.Errorf("NewBoundedMean: %w", err)
	}
	if opt.Lower == opt.Upper {
		return nil, fmt.Errorf("%w: NewBoundedMean requires Lower < Upper, got %v for both", checks.ErrConfiguration, opt.Lower)
	}
	// (lower + upper) / 2 may overflow for large bounds.
	midPoint := opt.Lower + (opt.Upper-opt.Lower)/2.0
	maxDistFromMidpoint := math.Abs(opt.Upper - midPoint)
	r := rand.OrSecure(opt.Rand)

	count, err := NewCount(&CountOptions{
		Epsilon:                      opt.Epsilon / 2,
		Delta:                        opt.Delta / 2,
		MaxPartitionsContributed:     opt.MaxPartitionsContributed,
		Noise:                        opt.Noise,
		Rand:                         r,
		maxContributionsPerPartition: opt.MaxContributionsPerPartition,
	})
	if err != nil {
		return nil, fmt.Errorf("NewBoundedMean: %w", err)
	}
	normalizedSum, err := NewBoundedSum(&BoundedSumOptions{
		Epsilon:                      opt.Epsilon / 2,
		Delta:                        opt.Delta / 2,
		MaxPartitionsContributed:     opt.MaxPartitionsContributed,
		MaxContributionsPerPartition: opt.MaxContributionsPerPartition,
		Lower:                        -maxDistFromMidpoint,
		Upper:                        maxDistFromMidpoint,
		Noise:                        opt.Noise,
		Rand:                         r,
	})
	if err != nil {
		return nil, fmt.Errorf("NewBoundedMean: %w", err)
	}
	return &BoundedMean{
		lower:         opt.Lower,
		upper:         opt.Upper,
		midPoint:      midPoint,
		normalizedSum: normalizedSum,
		count:         count,
	}, nil
}

// Add adds an entry. NaN entries are skipped and not counted.
func (bm *BoundedMean) Add(e float64) error {
	if err := bm.state.checkDefault("BoundedMean", "be amended"); err != nil {
		return err
	}
	if math.IsNaN(e) {
		return nil
	}
	clamped, err := ClampFloat64(e, bm.lower, bm.upper)
	if err != nil {
		return err
	}
	if err := bm.normalizedSum.Add(clamped - bm.midPoint); err != nil {
		return err
	}
	return bm.count.Increment()
}

// Merge merges bm2 into bm. bm2 is consumed by this operation.
func (bm *BoundedMean) Merge(bm2 *BoundedMean) error {
	if err := bm.state.checkDefault("BoundedMean", "merge"); err != nil {
		return err
	}
	if err := bm2.state.checkDefault("BoundedMean", "be merged"); err != nil {
		return err
	}
	if bm.lower != bm2.lower || bm.upper != bm2.upper {
		return fmt.Errorf("%w: checkMergeBoundedMean: bm and bm2 are not compatible", checks.ErrInvalidInput)
	}
	if err := bm.normalizedSum.Merge(bm2.normalizedSum); err != nil {
		return err
	}
	if err := bm.count.Merge(bm2.count); err != nil {
		return err
	}
	bm2.state = Merged
	return nil
}

// Result returns a differentially private estimate of the mean of the
// clamped entries, within [Lower, Upper]. The method can be called only
// once.
//
// Note that the returned value is not an unbiased estimate of the raw
// bounded mean.
func (bm *BoundedMean) Result() (float64, error) {
	if err := bm.state.checkDefault("BoundedMean", "return a result"); err != nil {
		return 0, err
	}
	noisedCount, err := bm.count.Result()
	if err != nil {
		return 0, err
	}
	noisedSum, err := bm.normalizedSum.Result()
	if err != nil {
		return 0, err
	}
	bm.state = ResultReturned
	return ClampFloat64(noisedSum/math.Max(1, float64(noisedCount))+bm.midPoint, bm.lower, bm.upper)
}
