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

// Count calculates a differentially private count of a collection of values
// using the Laplace or Gaussian mechanism.
//
// It supports privacy units that contribute to multiple partitions (via the
// MaxPartitionsContributed parameter) by scaling the added noise
// appropriately. It does not support multiple contributions to a single
// partition from the same privacy unit.
//
// The provided differentially private count is an unbiased estimate of the
// raw count.
//
// Not thread-safe.
type Count struct {
	// Parameters
	mech *noise.Mechanism
	r    *rand.Rand

	// State variables
	count        int64
	noisedResult int64
	state        aggregationState
}

// CountOptions contains the options necessary to initialize a Count.
type CountOptions struct {
	Epsilon                  float64    // Privacy parameter ε. Required.
	Delta                    float64    // Privacy parameter δ. Required with Gaussian noise, must be 0 with Laplace noise.
	MaxPartitionsContributed int64      // How many distinct partitions may a single privacy unit contribute to? Defaults to 1.
	Noise                    noise.Kind // Type of noise used. Defaults to Laplace noise.
	Rand                     *rand.Rand // Source of the noise. Defaults to a crypto-backed generator.
	// How many times may a single privacy unit contribute to a single
	// partition? Defaults to 1. Only set by aggregations built on Count.
	maxContributionsPerPartition int64
}

// NewCount returns a new Count, initialized at 0.
func NewCount(opt *CountOptions) (*Count, error) {
	if opt == nil {
		opt = &CountOptions{}
	}
	lInf := opt.maxContributionsPerPartition
	if lInf == 0 {
		lInf = 1
	}
	mech, err := newMechanism(opt.Noise, opt.Epsilon, opt.Delta, opt.MaxPartitionsContributed, float64(lInf))
	if err != nil {
		return nil, fmt.Errorf("NewCount: %w", err)
	}
	return &Count{mech: mech, r: rand.OrSecure(opt.Rand)}, nil
}

// Increment increments the count by one.
func (c *Count) Increment() error {
	return c.IncrementBy(1)
}

// IncrementBy increments the count by the given value.
// Note that this shouldn't be used to count multiple contributions to a
// single partition from the same privacy unit.
func (c *Count) IncrementBy(count int64) error {
	if err := c.state.checkDefault("Count", "be amended"); err != nil {
		return err
	}
	c.count += count
	return nil
}

// Merge merges c2 into c (i.e., adds to c all entries that were added to
// c2). c2 is consumed by this operation: it may not be used after it is
// merged into c.
func (c *Count) Merge(c2 *Count) error {
	if err := checkMergeCount(c, c2); err != nil {
		return err
	}
	c.count += c2.count
	c2.state = Merged
	return nil
}

func checkMergeCount(c1, c2 *Count) error {
	if err := c1.state.checkDefault("Count", "merge"); err != nil {
		return err
	}
	if err := c2.state.checkDefault("Count", "be merged"); err != nil {
		return err
	}
	if c1.mech.Config() != c2.mech.Config() {
		return fmt.Errorf("%w: checkMergeCount: c1 and c2 are not compatible", checks.ErrInvalidInput)
	}
	return nil
}

// Result returns a differentially private estimate of the current count.
// The method can be called only once.
//
// The returned value may sometimes be negative. This can be corrected by
// setting negative results to 0. Note that such post processing introduces
// bias to the result.
func (c *Count) Result() (int64, error) {
	if err := c.state.checkDefault("Count", "return a result"); err != nil {
		return 0, err
	}
	noised, err := c.mech.AddNoise(float64(c.count), c.r)
	if err != nil {
		return 0, err
	}
	c.state = ResultReturned
	c.noisedResult = int64(math.Round(noised))
	return c.noisedResult, nil
}

// ComputeConfidenceInterval computes a confidence interval with integer
// bounds that contains the true count with probability at least 1 - alpha.
// Negative bounds are clamped to 0. It can only be called after Result.
func (c *Count) ComputeConfidenceInterval(alpha float64) (noise.ConfidenceInterval, error) {
	if c.state != ResultReturned {
		return noise.ConfidenceInterval{}, fmt.Errorf("%w: Result must be called before ComputeConfidenceInterval, state is %v", checks.ErrInvalidInput, c.state)
	}
	ci, err := c.mech.ConfidenceInterval(float64(c.noisedResult), alpha)
	if err != nil {
		return noise.ConfidenceInterval{}, err
	}
	ci.LowerBound = math.Max(0, math.Round(ci.LowerBound))
	ci.UpperBound = math.Max(0, math.Round(ci.UpperBound))
	return ci, nil
}
