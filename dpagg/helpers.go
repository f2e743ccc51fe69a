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
)

// ClampFloat64 clamps e within lower and upper, such that lower is returned
// if e < lower, and upper is returned if e > upper. Otherwise, e is returned.
func ClampFloat64(e, lower, upper float64) (float64, error) {
	if lower > upper {
		return 0, fmt.Errorf("%w: lower must be less than or equal to upper, got lower = %v, upper = %v", checks.ErrConfiguration, lower, upper)
	}
	if e > upper {
		return upper, nil
	}
	if e < lower {
		return lower, nil
	}
	return e, nil
}

// newMechanism returns the mechanism releasing a statistic to which a
// privacy unit contributes to at most l0 partitions, changing each by at
// most lInf. Laplace noise is calibrated to the L1 sensitivity l0·lInf and
// Gaussian noise to the L2 sensitivity sqrt(l0)·lInf.
func newMechanism(kind noise.Kind, epsilon, delta float64, l0 int64, lInf float64) (*noise.Mechanism, error) {
	if l0 < 0 {
		return nil, fmt.Errorf("%w: MaxPartitionsContributed is %d, must be at least 0", checks.ErrConfiguration, l0)
	}
	if l0 == 0 {
		l0 = 1
	}
	var sensitivity float64
	switch kind {
	case noise.LaplaceNoise:
		sensitivity = float64(l0) * lInf
	case noise.GaussianNoise:
		sensitivity = math.Sqrt(float64(l0)) * lInf
	default:
		return nil, fmt.Errorf("%w: %v noise cannot release aggregates", checks.ErrConfiguration, kind)
	}
	return noise.NewMechanism(noise.Config{
		Kind:        kind,
		Epsilon:     epsilon,
		Sensitivity: sensitivity,
		Delta:       delta,
	})
}
