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
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/samber/lo"
)

// View is a Dataset together with its quasi-identifier columns and an
// optional sensitive attribute.
type View struct {
	data      *Dataset
	qis       []string
	sensitive string
}

// NewView validates that the quasi-identifiers are distinct columns of d and
// that sensitive, when non-empty, is a column of d outside the
// quasi-identifier set.
func NewView(d *Dataset, quasiIdentifiers []string, sensitive string) (*View, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dataset", checks.ErrInvalidInput)
	}
	if dups := lo.FindDuplicates(quasiIdentifiers); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate quasi-identifiers %q", checks.ErrSchema, dups)
	}
	if _, err := d.ColumnIndices(quasiIdentifiers); err != nil {
		return nil, err
	}
	if sensitive != "" {
		if _, err := d.ColumnIndex(sensitive); err != nil {
			return nil, err
		}
		if lo.Contains(quasiIdentifiers, sensitive) {
			return nil, fmt.Errorf("%w: sensitive attribute %q is also a quasi-identifier", checks.ErrSchema, sensitive)
		}
	}
	return &View{
		data:      d,
		qis:       append([]string(nil), quasiIdentifiers...),
		sensitive: sensitive,
	}, nil
}

// Dataset returns the underlying dataset.
func (v *View) Dataset() *Dataset {
	return v.data
}

// QuasiIdentifiers returns a copy of the quasi-identifier columns.
func (v *View) QuasiIdentifiers() []string {
	return append([]string(nil), v.qis...)
}

// Sensitive returns the sensitive attribute, or "" if none was given.
func (v *View) Sensitive() string {
	return v.sensitive
}

// WithDataset returns a view with the same columns over another dataset,
// typically a transformed version of v's dataset.
func (v *View) WithDataset(d *Dataset) (*View, error) {
	return NewView(d, v.qis, v.sensitive)
}
