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

// Package grouping partitions the records of a dataset into equivalence
// classes: records whose quasi-identifier values are equal field by field.
package grouping

import (
	"fmt"
	"sort"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/samber/lo"
)

// EquivalenceClass is a maximal set of records sharing one quasi-identifier
// tuple.
type EquivalenceClass struct {
	// Key is the canonical string of Values, see dataset.Key.
	Key string
	// Values is the shared quasi-identifier tuple, in the order the
	// quasi-identifiers were given to Group.
	Values []dataset.Value
	// Rows holds the indices of the member records in increasing order.
	Rows []int
}

// Size returns the number of records in c.
func (c *EquivalenceClass) Size() int {
	return len(c.Rows)
}

// Partition maps class keys to classes. Every record of the grouped dataset
// belongs to exactly one class.
type Partition map[string]*EquivalenceClass

// Group partitions d by the columns qis. It runs in a single pass over the
// records. An empty dataset yields an empty partition; an empty qis yields a
// single class holding every record.
func Group(d *dataset.Dataset, qis []string) (Partition, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dataset", checks.ErrInvalidInput)
	}
	cols, err := d.ColumnIndices(qis)
	if err != nil {
		return nil, err
	}
	p := make(Partition)
	for i := 0; i < d.Len(); i++ {
		values := d.Project(i, cols)
		key := dataset.Key(values)
		c, ok := p[key]
		if !ok {
			c = &EquivalenceClass{Key: key, Values: values}
			p[key] = c
		}
		c.Rows = append(c.Rows, i)
	}
	return p, nil
}

// Keys returns the class keys in sorted order.
func (p Partition) Keys() []string {
	keys := lo.Keys(p)
	sort.Strings(keys)
	return keys
}

// Classes returns the classes ordered by key.
func (p Partition) Classes() []*EquivalenceClass {
	return lo.Map(p.Keys(), func(k string, _ int) *EquivalenceClass { return p[k] })
}

// Sizes maps each class key to the class size.
func (p Partition) Sizes() map[string]int {
	return lo.MapValues(p, func(c *EquivalenceClass, _ string) int { return c.Size() })
}

// MinSize returns the size of the smallest class, or 0 for an empty
// partition.
func (p Partition) MinSize() int {
	if len(p) == 0 {
		return 0
	}
	return lo.Min(lo.Values(p.Sizes()))
}

// Violating returns the classes with fewer than k records, ordered by key.
func (p Partition) Violating(k int) []*EquivalenceClass {
	return lo.Filter(p.Classes(), func(c *EquivalenceClass, _ int) bool { return c.Size() < k })
}

// Records returns the number of records covered by p.
func (p Partition) Records() int {
	return lo.SumBy(lo.Values(p), func(c *EquivalenceClass) int { return c.Size() })
}
