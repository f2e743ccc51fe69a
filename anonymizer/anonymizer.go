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

// Package anonymizer searches leveled generalization hierarchies for a
// k-anonymous version of a dataset, falling back to record suppression when
// the hierarchies are exhausted.
package anonymizer

import (
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/Willie-Conway/Exploring-Information-Privacy/generalize"
	"github.com/Willie-Conway/Exploring-Information-Privacy/grouping"
	log "github.com/golang/glog"
	"github.com/samber/lo"
)

// Options configures Achieve. The zero value is best-effort with
// suppression enabled.
type Options struct {
	// Strict makes Achieve fail with checks.ErrUnachievable instead of
	// returning a dataset below the target k.
	Strict bool
	// DisableSuppression skips the suppression of the records left in
	// violating classes once every hierarchy is exhausted.
	DisableSuppression bool
}

// Result is the outcome of Achieve.
type Result struct {
	Dataset *dataset.Dataset
	// AchievedK is the size of the smallest equivalence class of Dataset,
	// 0 when Dataset is empty.
	AchievedK int
	// Iterations is the number of generalization steps taken. It never
	// exceeds the sum of the hierarchy depths.
	Iterations int
	// Levels is the hierarchy level reached by each quasi-identifier.
	Levels map[string]int
	// SuppressedRecords counts the records whose quasi-identifiers were
	// suppressed.
	SuppressedRecords int
	// Satisfied reports whether Dataset is k-anonymous for the target k.
	Satisfied bool
}

// candidate is one generalization step under consideration.
type candidate struct {
	column    string
	data      *dataset.Dataset
	violating int
	loss      float64
}

// Achieve generalizes the quasi-identifiers qis of d, one hierarchy level at
// a time, until every equivalence class holds at least k records or every
// hierarchy is exhausted. At each step it takes the level that leaves the
// fewest records in violating classes, preferring the column whose
// normalized precision loss grows the least, then the earlier column in qis.
//
// A quasi-identifier without a hierarchy is never generalized. d is left
// unchanged.
func Achieve(d *dataset.Dataset, qis []string, k int, hierarchies map[string]*generalize.Hierarchy, opts Options) (*Result, error) {
	if err := checks.CheckK(k); err != nil {
		return nil, err
	}
	if _, err := dataset.NewView(d, qis, ""); err != nil {
		return nil, err
	}
	for column := range hierarchies {
		if !lo.Contains(qis, column) {
			return nil, fmt.Errorf("%w: hierarchy given for %q, which is not a quasi-identifier", checks.ErrConfiguration, column)
		}
	}

	res := &Result{
		Dataset: d,
		Levels:  lo.SliceToMap(qis, func(qi string) (string, int) { return qi, 0 }),
	}
	p, err := grouping.Group(d, qis)
	if err != nil {
		return nil, err
	}
	for violatingRecords(p, k) > 0 {
		best, err := bestStep(d, qis, k, hierarchies, res.Levels)
		if err != nil {
			return nil, err
		}
		if best == nil {
			break
		}
		res.Iterations++
		res.Levels[best.column]++
		res.Dataset = best.data
		log.V(1).Infof("Iteration %d: generalized %q to level %d, %d records in classes below k=%d",
			res.Iterations, best.column, res.Levels[best.column], best.violating, k)
		if p, err = grouping.Group(res.Dataset, qis); err != nil {
			return nil, err
		}
	}

	if violating := p.Violating(k); len(violating) > 0 && !opts.DisableSuppression {
		rows := lo.FlatMap(violating, func(c *grouping.EquivalenceClass, _ int) []int { return c.Rows })
		if res.Dataset, err = generalize.SuppressRecords(res.Dataset, qis, rows); err != nil {
			return nil, err
		}
		res.SuppressedRecords = len(rows)
		log.V(1).Infof("Hierarchies exhausted, suppressed the quasi-identifiers of %d records", len(rows))
		if p, err = grouping.Group(res.Dataset, qis); err != nil {
			return nil, err
		}
	}

	res.AchievedK = p.MinSize()
	res.Satisfied = len(p.Violating(k)) == 0
	if !res.Satisfied && opts.Strict {
		return nil, fmt.Errorf("%w: reached k=%d, target is %d", checks.ErrUnachievable, res.AchievedK, k)
	}
	return res, nil
}

// bestStep evaluates one more level on every quasi-identifier whose
// hierarchy is not exhausted. It returns nil when no column can be
// generalized further.
func bestStep(d *dataset.Dataset, qis []string, k int, hierarchies map[string]*generalize.Hierarchy, levels map[string]int) (*candidate, error) {
	var best *candidate
	for _, column := range qis {
		h := hierarchies[column]
		if levels[column] >= h.Depth() {
			continue
		}
		next := lo.Assign(levels, map[string]int{column: levels[column] + 1})
		data, err := materialize(d, qis, hierarchies, next)
		if err != nil {
			return nil, err
		}
		p, err := grouping.Group(data, qis)
		if err != nil {
			return nil, err
		}
		c := &candidate{
			column:    column,
			data:      data,
			violating: violatingRecords(p, k),
			loss:      1 / float64(h.Depth()),
		}
		if best == nil || c.violating < best.violating || (c.violating == best.violating && c.loss < best.loss) {
			best = c
		}
	}
	return best, nil
}

// materialize generalizes the raw dataset d to the given levels.
func materialize(d *dataset.Dataset, qis []string, hierarchies map[string]*generalize.Hierarchy, levels map[string]int) (*dataset.Dataset, error) {
	out := d
	for _, column := range qis {
		if levels[column] == 0 {
			continue
		}
		var err error
		if out, err = hierarchies[column].Apply(out, column, levels[column]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// violatingRecords counts the records in classes with fewer than k records.
func violatingRecords(p grouping.Partition, k int) int {
	return lo.SumBy(p.Violating(k), func(c *grouping.EquivalenceClass) int { return c.Size() })
}
