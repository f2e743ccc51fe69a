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

// Package anonymity computes group-based privacy metrics over the
// equivalence classes of a dataset: k-anonymity, l-diversity in its
// distinct-count and entropy forms, and t-closeness.
//
// An empty dataset has no equivalence classes and vacuously satisfies every
// threshold.
package anonymity

import (
	"fmt"
	"sort"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/Willie-Conway/Exploring-Information-Privacy/grouping"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// CheckKAnonymity reports whether every equivalence class of d over qis has
// at least k records. It is always true for k ≤ 1.
func CheckKAnonymity(d *dataset.Dataset, qis []string, k int) (bool, error) {
	if err := checks.CheckK(k); err != nil {
		return false, err
	}
	p, err := grouping.Group(d, qis)
	if err != nil {
		return false, err
	}
	return len(p.Violating(k)) == 0, nil
}

// CheckLDiversity reports whether every equivalence class of d over qis
// holds at least l distinct values of the sensitive attribute.
func CheckLDiversity(d *dataset.Dataset, qis []string, sensitive string, l int) (bool, error) {
	if err := checks.CheckL(l); err != nil {
		return false, err
	}
	p, col, err := partition(d, qis, sensitive)
	if err != nil {
		return false, err
	}
	for _, c := range p {
		if distinctCount(d, c, col) < l {
			return false, nil
		}
	}
	return true, nil
}

// EntropyLDiversity returns the entropy −Σ p·ln(p) of the sensitive
// attribute within each equivalence class, keyed by class key. A class with
// a single sensitive value has entropy 0.
func EntropyLDiversity(d *dataset.Dataset, qis []string, sensitive string) (map[string]float64, error) {
	p, col, err := partition(d, qis, sensitive)
	if err != nil {
		return nil, err
	}
	return lo.MapValues(p, func(c *grouping.EquivalenceClass, _ string) float64 {
		return classEntropy(d, c, col)
	}), nil
}

// partition groups d by qis and resolves the sensitive column.
func partition(d *dataset.Dataset, qis []string, sensitive string) (grouping.Partition, int, error) {
	if sensitive == "" {
		return nil, 0, fmt.Errorf("%w: no sensitive attribute", checks.ErrSchema)
	}
	v, err := dataset.NewView(d, qis, sensitive)
	if err != nil {
		return nil, 0, err
	}
	col, err := v.Dataset().ColumnIndex(sensitive)
	if err != nil {
		return nil, 0, err
	}
	p, err := grouping.Group(d, qis)
	if err != nil {
		return nil, 0, err
	}
	return p, col, nil
}

// histogram counts the sensitive values of the records of c.
func histogram(d *dataset.Dataset, c *grouping.EquivalenceClass, col int) map[dataset.Value]int {
	h := make(map[dataset.Value]int)
	for _, r := range c.Rows {
		h[d.At(r, col)]++
	}
	return h
}

func distinctCount(d *dataset.Dataset, c *grouping.EquivalenceClass, col int) int {
	return len(histogram(d, c, col))
}

func classEntropy(d *dataset.Dataset, c *grouping.EquivalenceClass, col int) float64 {
	h := histogram(d, c, col)
	n := float64(c.Size())
	probs := make([]float64, 0, len(h))
	for _, count := range h {
		probs = append(probs, float64(count)/n)
	}
	// Fixed summation order.
	sort.Float64s(probs)
	return stat.Entropy(probs)
}
