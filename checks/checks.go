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

// Package checks contains parameter checks and the error taxonomy shared by
// the anonymity metrics and the differential privacy mechanisms.
package checks

import (
	"fmt"
	"math"

	log "github.com/golang/glog"
)

const (
	epsilonName     = "Epsilon"
	deltaName       = "Delta"
	sensitivityName = "Sensitivity"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	var name string
	switch len(nameSlice) {
	case 0:
		name = defaultName
	case 1:
		name = nameSlice[0]
	default:
		return "", fmt.Errorf("there should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
	return name, nil
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}

// CheckEpsilonVeryStrict returns an error if ε is NaN, ±∞ or less than 2⁻⁵⁰.
func CheckEpsilonVeryStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon < math.Exp2(-50.0) || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return configErrorf("%s is %e, must be at least 2^-50 and finite", epsName, epsilon)
	}
	return nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive, NaN or ±∞.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return configErrorf("%s is %f, must be strictly positive and finite", epsName, epsilon)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is not in the open interval (0, 1).
func CheckDeltaStrict(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return configErrorf("%s is %e, cannot be NaN", delName, delta)
	}
	if delta <= 0 {
		return configErrorf("%s is %e, must be strictly positive", delName, delta)
	}
	if delta >= 1 {
		return configErrorf("%s is %e, must be strictly less than 1", delName, delta)
	}
	return nil
}

// CheckNoDelta returns an error if δ is non-zero.
func CheckNoDelta(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if delta != 0 {
		return configErrorf("%s is %e, must be 0", delName, delta)
	}
	return nil
}

// CheckSensitivity returns an error if the sensitivity is nonpositive, NaN or ±∞.
func CheckSensitivity(sensitivity float64, name ...string) error {
	sName, err := verifyName(sensitivityName, name)
	if err != nil {
		return err
	}
	if sensitivity <= 0 || math.IsInf(sensitivity, 0) || math.IsNaN(sensitivity) {
		return configErrorf("%s is %f, must be strictly positive and finite", sName, sensitivity)
	}
	return nil
}

// CheckK returns an error if the k-anonymity target is negative.
func CheckK(k int) error {
	if k < 0 {
		return configErrorf("K is %d, must be at least 0", k)
	}
	return nil
}

// CheckL returns an error if the l-diversity target is negative.
func CheckL(l int) error {
	if l < 0 {
		return configErrorf("L is %d, must be at least 0", l)
	}
	return nil
}

// CheckT returns an error if the t-closeness threshold is negative, NaN or ±∞.
func CheckT(t float64) error {
	if t < 0 || math.IsInf(t, 0) || math.IsNaN(t) {
		return configErrorf("T is %f, must be nonnegative and finite", t)
	}
	return nil
}

// CheckSuppressionThreshold returns an error if threshold is negative.
func CheckSuppressionThreshold(threshold int) error {
	if threshold < 0 {
		return configErrorf("Suppression threshold is %d, must be at least 0", threshold)
	}
	return nil
}

// CheckAlpha returns an error if the supplied alpha is not between 0 and 1.
func CheckAlpha(alpha float64) error {
	if alpha <= 0 || alpha >= 1 || math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return configErrorf("Alpha is %f, must be within (0, 1) and finite", alpha)
	}
	return nil
}

// CheckBoundsFloat64 returns an error if lower is larger than upper, or if either parameter is NaN or ±∞.
func CheckBoundsFloat64(lower, upper float64) error {
	if math.IsNaN(lower) {
		return configErrorf("Lower bound cannot be NaN")
	}
	if math.IsNaN(upper) {
		return configErrorf("Upper bound cannot be NaN")
	}
	if math.IsInf(lower, 0) {
		return configErrorf("Lower bound cannot be infinity")
	}
	if math.IsInf(upper, 0) {
		return configErrorf("Upper bound cannot be infinity")
	}
	if lower > upper {
		return configErrorf("Upper bound (%f) must be larger than lower bound (%f)", upper, lower)
	}
	if lower == upper {
		log.Warningf("Lower bound is equal to upper bound: all added elements will be clamped to %f", upper)
	}
	return nil
}

// CheckParallelism returns an error if the worker count is negative. Zero
// selects the default.
func CheckParallelism(parallelism int) error {
	if parallelism < 0 {
		return configErrorf("Parallelism is %d, must be at least 0", parallelism)
	}
	return nil
}
