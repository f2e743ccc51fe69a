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
	"runtime"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/Willie-Conway/Exploring-Information-Privacy/grouping"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Options configures Evaluate.
type Options struct {
	// Parallelism bounds the number of classes evaluated concurrently.
	// Defaults to runtime.GOMAXPROCS(0).
	Parallelism int
	// Encoding of the sensitive attribute. When nil, t-closeness distances
	// are not computed.
	Encoding Encoding
}

// Report summarizes the anonymity of a view. Maps are keyed by class key.
type Report struct {
	Records int `json:"records"`
	Classes int `json:"classes"`
	// KMin is the size of the smallest equivalence class.
	KMin int `json:"k_min"`
	// LMin is the smallest number of distinct sensitive values in a class,
	// 0 when the view has no sensitive attribute.
	LMin       int                `json:"l_min"`
	Entropy    map[string]float64 `json:"entropy,omitempty"`
	TCloseness map[string]float64 `json:"t_closeness,omitempty"`
	// MaxDistance is the largest value of TCloseness.
	MaxDistance float64 `json:"max_t_distance"`
	// MaxRisk is the prosecutor re-identification risk of the most exposed
	// record, 1/KMin.
	MaxRisk float64 `json:"max_risk"`
	// AverageRisk is the expected re-identification risk of a record,
	// classes/records.
	AverageRisk float64 `json:"average_risk"`
	// Uniqueness maps every quasi-identifier to its number of distinct
	// values divided by the number of records.
	Uniqueness map[string]float64 `json:"uniqueness"`
}

// classMetrics holds the per-class results written by the workers.
type classMetrics struct {
	distinct int
	entropy  float64
	distance float64
}

// Evaluate computes the Report of v. Per-class metrics are computed in
// parallel; the workers share the partition and the global distribution
// read-only.
func Evaluate(v *dataset.View, opts Options) (*Report, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil view", checks.ErrInvalidInput)
	}
	if err := checks.CheckParallelism(opts.Parallelism); err != nil {
		return nil, err
	}
	if opts.Parallelism == 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	d := v.Dataset()
	p, err := grouping.Group(d, v.QuasiIdentifiers())
	if err != nil {
		return nil, err
	}
	rep := &Report{
		Records: d.Len(),
		Classes: len(p),
		KMin:    p.MinSize(),
	}
	if rep.KMin > 0 {
		rep.MaxRisk = 1 / float64(rep.KMin)
		rep.AverageRisk = float64(rep.Classes) / float64(rep.Records)
	}
	if rep.Uniqueness, err = uniqueness(d, v.QuasiIdentifiers()); err != nil {
		return nil, err
	}
	if v.Sensitive() == "" {
		return rep, nil
	}

	col, err := d.ColumnIndex(v.Sensitive())
	if err != nil {
		return nil, err
	}
	var s *support
	if opts.Encoding != nil {
		if s, err = newSupport(d, col, opts.Encoding); err != nil {
			return nil, err
		}
	}

	classes := p.Classes()
	results := make([]classMetrics, len(classes))
	var g errgroup.Group
	g.SetLimit(opts.Parallelism)
	for i, c := range classes {
		i, c := i, c
		g.Go(func() error {
			results[i] = classMetrics{
				distinct: distinctCount(d, c, col),
				entropy:  classEntropy(d, c, col),
			}
			if s != nil {
				results[i].distance = s.distance(d, c, col)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep.Entropy = make(map[string]float64, len(classes))
	if s != nil {
		rep.TCloseness = make(map[string]float64, len(classes))
	}
	for i, c := range classes {
		rep.Entropy[c.Key] = results[i].entropy
		if s != nil {
			rep.TCloseness[c.Key] = results[i].distance
		}
	}
	if len(results) > 0 {
		rep.LMin = lo.MinBy(results, func(a, b classMetrics) bool { return a.distinct < b.distinct }).distinct
		rep.MaxDistance = lo.MaxBy(results, func(a, b classMetrics) bool { return a.distance > b.distance }).distance
	}
	return rep, nil
}

// uniqueness returns the share of distinct values of every column, 0 for an
// empty dataset.
func uniqueness(d *dataset.Dataset, columns []string) (map[string]float64, error) {
	u := make(map[string]float64, len(columns))
	for _, column := range columns {
		values, err := d.Column(column)
		if err != nil {
			return nil, err
		}
		u[column] = 0
		if len(values) > 0 {
			u[column] = float64(len(lo.Uniq(values))) / float64(len(values))
		}
	}
	return u, nil
}

// SatisfiesK reports whether the evaluated view is k-anonymous.
func (r *Report) SatisfiesK(k int) bool {
	return r.Classes == 0 || r.KMin >= k
}

// SatisfiesL reports whether the evaluated view is l-diverse.
func (r *Report) SatisfiesL(l int) bool {
	return r.Classes == 0 || r.LMin >= l
}

// SatisfiesT reports whether the evaluated view has t-closeness. It is
// false when no distances were computed.
func (r *Report) SatisfiesT(t float64) bool {
	if r.Classes == 0 {
		return true
	}
	return r.TCloseness != nil && r.MaxDistance <= t
}

// Summary returns the report as a plain mapping of metric name to value.
func (r *Report) Summary() map[string]any {
	m := map[string]any{
		"records":      r.Records,
		"classes":      r.Classes,
		"k_min":        r.KMin,
		"max_risk":     r.MaxRisk,
		"average_risk": r.AverageRisk,
		"uniqueness":   r.Uniqueness,
	}
	if r.Entropy != nil {
		m["l_min"] = r.LMin
		m["entropy"] = r.Entropy
	}
	if r.TCloseness != nil {
		m["t_closeness"] = r.TCloseness
		m["max_t_distance"] = r.MaxDistance
	}
	return m
}
