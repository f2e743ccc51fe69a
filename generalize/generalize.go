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

// Package generalize rewrites quasi-identifier columns to coarser values,
// through explicit mappings or leveled hierarchies, and suppresses rare
// values. Every function returns a new dataset and leaves its input
// unchanged.
package generalize

import (
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/samber/lo"
)

// Generalize returns a copy of d in which every value v of column is
// replaced by mapping[v]. It fails with checks.ErrUnmappedValue if some
// value of the column has no entry.
func Generalize(d *dataset.Dataset, column string, mapping map[dataset.Value]dataset.Value) (*dataset.Dataset, error) {
	return rewrite(d, column, func(v dataset.Value) (dataset.Value, error) {
		g, ok := mapping[v]
		if !ok {
			return dataset.Value{}, fmt.Errorf("%w: no generalization for %q in column %q", checks.ErrUnmappedValue, v, column)
		}
		return g, nil
	})
}

// Suppress returns a copy of d in which the values of column occurring
// fewer than threshold times are replaced by dataset.Suppressed.
func Suppress(d *dataset.Dataset, column string, threshold int) (*dataset.Dataset, error) {
	if err := checks.CheckSuppressionThreshold(threshold); err != nil {
		return nil, err
	}
	values, err := d.Column(column)
	if err != nil {
		return nil, err
	}
	counts := lo.CountValues(values)
	return rewrite(d, column, func(v dataset.Value) (dataset.Value, error) {
		if counts[v] < threshold {
			return dataset.Suppressed, nil
		}
		return v, nil
	})
}

// SuppressRecords returns a copy of d in which the given columns of the
// given records are replaced by dataset.Suppressed.
func SuppressRecords(d *dataset.Dataset, columns []string, rows []int) (*dataset.Dataset, error) {
	for _, r := range rows {
		if r < 0 || r >= d.Len() {
			return nil, fmt.Errorf("%w: record %d out of range [0, %d)", checks.ErrInvalidInput, r, d.Len())
		}
	}
	selected := lo.SliceToMap(rows, func(r int) (int, bool) { return r, true })
	out := d
	for _, column := range columns {
		values, err := out.Column(column)
		if err != nil {
			return nil, err
		}
		for r := range selected {
			values[r] = dataset.Suppressed
		}
		if out, err = out.WithColumn(column, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rewrite applies f to every value of column. Nothing is returned unless f
// succeeds on every record.
func rewrite(d *dataset.Dataset, column string, f func(dataset.Value) (dataset.Value, error)) (*dataset.Dataset, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dataset", checks.ErrInvalidInput)
	}
	values, err := d.Column(column)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if values[i], err = f(v); err != nil {
			return nil, err
		}
	}
	return d.WithColumn(column, values)
}
