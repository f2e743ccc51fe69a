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

// Package dataset provides immutable tabular data: records sharing an
// ordered schema, plus views naming the quasi-identifier columns and the
// sensitive attribute.
//
// No method mutates a Dataset. Transforms return a new Dataset and the
// caller drops the previous one once it is superseded.
package dataset

import (
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/samber/lo"
)

// Dataset is an ordered sequence of records sharing a schema.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New returns a Dataset with the given schema and rows. The input slices are
// copied. Column names must be non-empty and distinct, every row must have
// one value per column, and numeric values must be finite.
func New(columns []string, rows [][]Value) (*Dataset, error) {
	if dups := lo.FindDuplicates(columns); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate columns %q", checks.ErrSchema, dups)
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", checks.ErrSchema, i)
		}
		index[c] = i
	}
	copied := make([][]Value, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, schema has %d columns", checks.ErrSchema, i, len(row), len(columns))
		}
		for j, v := range row {
			if !v.valid() {
				return nil, fmt.Errorf("%w: row %d column %q holds non-finite number %v", checks.ErrInvalidInput, i, columns[j], v)
			}
		}
		copied[i] = append([]Value(nil), row...)
	}
	return &Dataset{
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    copied,
	}, nil
}

// FromColumns builds a Dataset from column-major data. All columns must have
// the same length.
func FromColumns(columns []string, values map[string][]Value) (*Dataset, error) {
	n := -1
	for _, c := range columns {
		vs, ok := values[c]
		if !ok {
			return nil, fmt.Errorf("%w: no values for column %q", checks.ErrSchema, c)
		}
		if n >= 0 && len(vs) != n {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", checks.ErrSchema, c, len(vs), n)
		}
		n = len(vs)
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]Value, n)
	for i := range rows {
		rows[i] = make([]Value, len(columns))
		for j, c := range columns {
			rows[i][j] = values[c][i]
		}
	}
	return New(columns, rows)
}

// Columns returns the schema in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// HasColumn reports whether name is part of the schema.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of name in the schema.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: column %q is not in the schema %q", checks.ErrSchema, name, d.columns)
	}
	return i, nil
}

// ColumnIndices resolves several column names at once.
func (d *Dataset) ColumnIndices(names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, err := d.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	return idx, nil
}

// At returns the value of record row in column col.
func (d *Dataset) At(row, col int) Value {
	return d.rows[row][col]
}

// Project returns the values of record row in the given columns.
func (d *Dataset) Project(row int, cols []int) []Value {
	out := make([]Value, len(cols))
	for i, c := range cols {
		out[i] = d.rows[row][c]
	}
	return out
}

// Record returns a read-only view of record i.
func (d *Dataset) Record(i int) Record {
	return Record{d: d, row: i}
}

// Column returns a copy of the values in column name.
func (d *Dataset) Column(name string) ([]Value, error) {
	c, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[c]
	}
	return out, nil
}

// WithColumn returns a new Dataset in which column name holds values. d is
// left unchanged.
func (d *Dataset) WithColumn(name string, values []Value) (*Dataset, error) {
	c, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	if len(values) != len(d.rows) {
		return nil, fmt.Errorf("%w: %d values for column %q, dataset has %d records", checks.ErrInvalidInput, len(values), name, len(d.rows))
	}
	rows := make([][]Value, len(d.rows))
	for i, row := range d.rows {
		if !values[i].valid() {
			return nil, fmt.Errorf("%w: record %d would hold non-finite number %v", checks.ErrInvalidInput, i, values[i])
		}
		rows[i] = append([]Value(nil), row...)
		rows[i][c] = values[i]
	}
	return &Dataset{columns: d.columns, index: d.index, rows: rows}, nil
}

// Record is a read-only view of one row of a Dataset.
type Record struct {
	d   *Dataset
	row int
}

// Get returns the value of column name and whether the column exists.
func (r Record) Get(name string) (Value, bool) {
	c, ok := r.d.index[name]
	if !ok {
		return Value{}, false
	}
	return r.d.rows[r.row][c], true
}

// Values returns a copy of the record's values in schema order.
func (r Record) Values() []Value {
	return append([]Value(nil), r.d.rows[r.row]...)
}
