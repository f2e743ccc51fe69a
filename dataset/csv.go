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

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV reads a Dataset from CSV. The first line is the header; every cell
// is parsed with Parse.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("couldn't read the csv header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read the csv header, err = %w", err)
	}
	var rows [][]Value
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("couldn't read csv line %d, err = %w", len(rows)+2, err)
		}
		row := make([]Value, len(record))
		for i, cell := range record {
			row[i] = Parse(cell)
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// WriteCSV writes d as CSV with a header line.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.columns); err != nil {
		return fmt.Errorf("couldn't write the csv header, err = %w", err)
	}
	line := make([]string, len(d.columns))
	for _, row := range d.rows {
		for i, v := range row {
			line[i] = v.String()
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("couldn't write csv line, err = %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
