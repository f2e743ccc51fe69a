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
	"math"
	"strconv"
	"strings"
)

// Value is a single cell: either a number or a string (categorical) value.
// Values are comparable with == and can be used as map keys.
type Value struct {
	numeric bool
	num     float64
	str     string
}

// Suppressed is the marker that replaces suppressed values.
var Suppressed = String("*")

// Number returns a numeric Value.
func Number(f float64) Value {
	if f == 0 {
		// Normalize -0 so that it is the same map key as 0.
		f = 0
	}
	return Value{numeric: true, num: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{str: s}
}

// Parse returns a numeric Value if s is a finite number written in its
// canonical form, and a string Value otherwise. Text that would not be
// reproduced by String, such as "02134", "1e3" or integers beyond 2⁵³, stays
// a string so that no information is lost.
func Parse(s string) Value {
	t := strings.TrimSpace(s)
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return String(s)
	}
	if v := Number(f); v.String() == t {
		return v
	}
	return String(s)
}

// IsNumeric reports whether v holds a number.
func (v Value) IsNumeric() bool {
	return v.numeric
}

// Float returns the number held by v and whether v is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric
}

// String returns the canonical text form of v.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Less orders numbers before strings, numbers numerically and strings
// lexicographically.
func (v Value) Less(o Value) bool {
	if v.numeric != o.numeric {
		return v.numeric
	}
	if v.numeric {
		return v.num < o.num
	}
	return v.str < o.str
}

func (v Value) valid() bool {
	return !v.numeric || !(math.IsNaN(v.num) || math.IsInf(v.num, 0))
}

// Key returns a canonical string for a tuple of values. Two tuples have the
// same key iff they are equal element by element.
func Key(values []Value) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		if v.numeric {
			b.WriteByte('n')
		} else {
			b.WriteByte('s')
		}
		b.WriteString(strconv.Quote(v.String()))
	}
	return b.String()
}
