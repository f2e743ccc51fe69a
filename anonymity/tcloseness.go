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

package anonymity

import (
	"fmt"
	"math"
	"sort"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/Willie-Conway/Exploring-Information-Privacy/grouping"
	"github.com/samber/lo"
)

// Encoding places sensitive values on the real line so that the distance
// between two distributions of them is defined.
type Encoding interface {
	// Position returns the coordinate of v, or an error wrapping
	// checks.ErrInvalidDistribution if v cannot be placed.
	Position(v dataset.Value) (float64, error)
}

type numericEncoding struct{}

// NumericEncoding places numeric values at their own value. Distances are
// expressed in the unit of the attribute.
func NumericEncoding() Encoding {
	return numericEncoding{}
}

func (numericEncoding) Position(v dataset.Value) (float64, error) {
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: value %q is not numeric", checks.ErrInvalidDistribution, v)
	}
	return f, nil
}

type ordinalEncoding struct {
	ranks map[dataset.Value]float64
	err   error
}

// OrdinalEncoding places the i-th of m ranked categories at i/(m-1), so
// distances are in [0, 1]. Values outside order, and orders listing a value
// twice, are rejected when the encoding is used.
func OrdinalEncoding(order ...dataset.Value) Encoding {
	e := ordinalEncoding{ranks: make(map[dataset.Value]float64, len(order))}
	if dups := lo.FindDuplicates(order); len(dups) > 0 {
		e.err = fmt.Errorf("%w: ordinal encoding lists %v more than once", checks.ErrInvalidDistribution, dups)
		return e
	}
	for i, v := range order {
		if len(order) > 1 {
			e.ranks[v] = float64(i) / float64(len(order)-1)
		} else {
			e.ranks[v] = 0
		}
	}
	return e
}

func (e ordinalEncoding) Position(v dataset.Value) (float64, error) {
	if e.err != nil {
		return 0, e.err
	}
	p, ok := e.ranks[v]
	if !ok {
		return 0, fmt.Errorf("%w: value %q has no rank in the ordinal encoding", checks.ErrInvalidDistribution, v)
	}
	return p, nil
}

// support is the encoded global distribution of the sensitive attribute.
type support struct {
	// positions holds the distinct encoded values in increasing order.
	positions []float64
	// index maps each raw sensitive value to its slot in positions.
	index map[dataset.Value]int
	// cdf[i] is the number of records with a value in positions[:i+1].
	cdf   []int
	total int
}

// newSupport encodes every sensitive value of d. It fails if any value
// cannot be placed by enc.
func newSupport(d *dataset.Dataset, col int, enc Encoding) (*support, error) {
	if enc == nil {
		return nil, fmt.Errorf("%w: no encoding for the sensitive attribute", checks.ErrInvalidDistribution)
	}
	coords := make(map[dataset.Value]float64)
	for i := 0; i < d.Len(); i++ {
		v := d.At(i, col)
		if _, ok := coords[v]; ok {
			continue
		}
		p, err := enc.Position(v)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: value %q is encoded as %v", checks.ErrInvalidDistribution, v, p)
		}
		coords[v] = p
	}
	positions := lo.Uniq(lo.Values(coords))
	sort.Float64s(positions)
	slot := make(map[float64]int, len(positions))
	for i, p := range positions {
		slot[p] = i
	}
	s := &support{
		positions: positions,
		index:     lo.MapValues(coords, func(p float64, _ dataset.Value) int { return slot[p] }),
	}
	s.cdf = s.cumulative(d, lo.Range(d.Len()), col)
	s.total = d.Len()
	return s, nil
}

// cumulative returns the cumulative counts of the given records over the
// support.
func (s *support) cumulative(d *dataset.Dataset, rows []int, col int) []int {
	counts := make([]int, len(s.positions))
	for _, r := range rows {
		counts[s.index[d.At(r, col)]]++
	}
	for i := 1; i < len(counts); i++ {
		counts[i] += counts[i-1]
	}
	return counts
}

// distance returns the 1-D Earth Mover's distance between the distribution
// of the records of c and the global distribution. Cumulative frequencies
// are formed as integer count over size, so equal distributions have a
// distance of exactly 0.
func (s *support) distance(d *dataset.Dataset, c *grouping.EquivalenceClass, col int) float64 {
	local := s.cumulative(d, c.Rows, col)
	n, total := float64(c.Size()), float64(s.total)
	var emd float64
	for i := 0; i+1 < len(s.positions); i++ {
		gap := s.positions[i+1] - s.positions[i]
		emd += math.Abs(float64(local[i])/n-float64(s.cdf[i])/total) * gap
	}
	return emd
}

// TClosenessDistances returns the Earth Mover's distance between the
// sensitive distribution of each equivalence class and the global one,
// keyed by class key.
func TClosenessDistances(d *dataset.Dataset, qis []string, sensitive string, enc Encoding) (map[string]float64, error) {
	p, col, err := partition(d, qis, sensitive)
	if err != nil {
		return nil, err
	}
	s, err := newSupport(d, col, enc)
	if err != nil {
		return nil, err
	}
	return lo.MapValues(p, func(c *grouping.EquivalenceClass, _ string) float64 {
		return s.distance(d, c, col)
	}), nil
}

// CheckTCloseness reports whether the distance of every equivalence class
// to the global sensitive distribution is at most t.
func CheckTCloseness(d *dataset.Dataset, qis []string, sensitive string, t float64, enc Encoding) (bool, error) {
	if err := checks.CheckT(t); err != nil {
		return false, err
	}
	dists, err := TClosenessDistances(d, qis, sensitive, enc)
	if err != nil {
		return false, err
	}
	return lo.EveryBy(lo.Values(dists), func(dist float64) bool { return dist <= t }), nil
}
