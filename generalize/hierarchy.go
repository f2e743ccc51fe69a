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

package generalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/samber/lo"
)

// Hierarchy is a leveled generalization hierarchy for one column. Level 0
// is the raw data; level i is obtained by applying the first i mappings in
// turn. Depth is the number of mappings.
type Hierarchy struct {
	levels []map[dataset.Value]dataset.Value
}

// NewHierarchy returns the hierarchy with the given successive mappings.
// Every value produced by a level must be mapped by the next one.
func NewHierarchy(levels ...map[dataset.Value]dataset.Value) (*Hierarchy, error) {
	h := &Hierarchy{levels: make([]map[dataset.Value]dataset.Value, len(levels))}
	for i, level := range levels {
		if len(level) == 0 {
			return nil, fmt.Errorf("%w: hierarchy level %d is empty", checks.ErrConfiguration, i+1)
		}
		h.levels[i] = lo.Assign(level)
		if i == 0 {
			continue
		}
		for _, v := range lo.Values(levels[i-1]) {
			if _, ok := level[v]; !ok {
				return nil, fmt.Errorf("%w: level %d produces %q which level %d does not map", checks.ErrUnmappedValue, i, v, i+1)
			}
		}
	}
	return h, nil
}

// Depth returns the number of generalization steps of h.
func (h *Hierarchy) Depth() int {
	if h == nil {
		return 0
	}
	return len(h.levels)
}

// Map returns the generalization of the raw value v at the given level.
func (h *Hierarchy) Map(v dataset.Value, level int) (dataset.Value, error) {
	if level < 0 || level > h.Depth() {
		return dataset.Value{}, fmt.Errorf("%w: level %d outside [0, %d]", checks.ErrConfiguration, level, h.Depth())
	}
	for i := 0; i < level; i++ {
		g, ok := h.levels[i][v]
		if !ok {
			return dataset.Value{}, fmt.Errorf("%w: no generalization for %q at level %d", checks.ErrUnmappedValue, v, i+1)
		}
		v = g
	}
	return v, nil
}

// Apply returns a copy of d with the raw values of column generalized to
// the given level.
func (h *Hierarchy) Apply(d *dataset.Dataset, column string, level int) (*dataset.Dataset, error) {
	if level < 0 || level > h.Depth() {
		return nil, fmt.Errorf("%w: level %d outside [0, %d]", checks.ErrConfiguration, level, h.Depth())
	}
	return rewrite(d, column, func(v dataset.Value) (dataset.Value, error) {
		g, err := h.Map(v, level)
		if err != nil {
			return dataset.Value{}, fmt.Errorf("column %q: %w", column, err)
		}
		return g, nil
	})
}

// labeler computes the label of a raw value at one level.
type labeler func(dataset.Value) (dataset.Value, error)

// chain builds the hierarchy whose level i maps the label of each raw value
// at level i-1 to its label at level i, followed by a final level mapping
// everything to dataset.Suppressed. Labelers that would send one label to
// two different coarser labels are rejected.
func chain(values []dataset.Value, labelers []labeler) (*Hierarchy, error) {
	values = lo.Uniq(values)
	labelers = append(labelers, func(dataset.Value) (dataset.Value, error) { return dataset.Suppressed, nil })
	levels := make([]map[dataset.Value]dataset.Value, len(labelers))
	current := lo.SliceToMap(values, func(v dataset.Value) (dataset.Value, dataset.Value) { return v, v })
	for i, label := range labelers {
		levels[i] = make(map[dataset.Value]dataset.Value)
		next := make(map[dataset.Value]dataset.Value, len(current))
		for raw, prev := range current {
			g, err := label(raw)
			if err != nil {
				return nil, err
			}
			if old, ok := levels[i][prev]; ok && old != g {
				return nil, fmt.Errorf("%w: level %d maps %q to both %q and %q", checks.ErrConfiguration, i+1, prev, old, g)
			}
			levels[i][prev] = g
			next[raw] = g
		}
		current = next
	}
	if len(values) == 0 {
		return &Hierarchy{}, nil
	}
	return NewHierarchy(levels...)
}

// RangeHierarchy buckets numeric values into intervals "lo-hi" of the
// given widths, then suppresses them. Each width must be a multiple of the
// previous one so that the buckets nest.
func RangeHierarchy(values []dataset.Value, widths ...float64) (*Hierarchy, error) {
	for i, w := range widths {
		if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
			return nil, fmt.Errorf("%w: range width %v must be strictly positive and finite", checks.ErrConfiguration, w)
		}
		if i > 0 && math.Mod(w, widths[i-1]) != 0 {
			return nil, fmt.Errorf("%w: range width %v is not a multiple of %v", checks.ErrConfiguration, w, widths[i-1])
		}
	}
	labelers := lo.Map(widths, func(w float64, _ int) labeler {
		return func(v dataset.Value) (dataset.Value, error) {
			f, ok := v.Float()
			if !ok {
				return dataset.Value{}, fmt.Errorf("%w: range hierarchy over non-numeric value %q", checks.ErrInvalidInput, v)
			}
			low := math.Floor(f/w) * w
			return dataset.String(fmt.Sprintf("%g-%g", low, low+w)), nil
		}
	})
	return chain(values, labelers)
}

// MaskHierarchy replaces the right-most masks[i] characters of each value
// with '*' at level i+1, then suppresses the values. Masks must increase.
func MaskHierarchy(values []dataset.Value, masks ...int) (*Hierarchy, error) {
	for i, m := range masks {
		if m <= 0 || (i > 0 && m <= masks[i-1]) {
			return nil, fmt.Errorf("%w: masks %v must be strictly positive and increasing", checks.ErrConfiguration, masks)
		}
	}
	labelers := lo.Map(masks, func(m int, _ int) labeler {
		return func(v dataset.Value) (dataset.Value, error) {
			s := v.String()
			keep := max(len(s)-m, 0)
			return dataset.String(s[:keep] + strings.Repeat("*", len(s)-keep)), nil
		}
	})
	return chain(values, labelers)
}
