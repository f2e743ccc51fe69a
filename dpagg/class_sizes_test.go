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

package dpagg

import (
	"errors"
	"testing"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/dataset"
	"github.com/Willie-Conway/Exploring-Information-Privacy/grouping"
	"github.com/Willie-Conway/Exploring-Information-Privacy/rand"
	"github.com/google/go-cmp/cmp"
)

func patientClasses(t *testing.T) grouping.Partition {
	t.Helper()
	ages := []float64{23, 23, 28, 25, 23, 27, 28, 25, 23, 27}
	rows := make([][]dataset.Value, len(ages))
	for i, a := range ages {
		rows[i] = []dataset.Value{dataset.Number(a)}
	}
	d, err := dataset.New([]string{"age"}, rows)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	p, err := grouping.Group(d, []string{"age"})
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	return p
}

func TestClassSizes(t *testing.T) {
	p := patientClasses(t)
	got, err := ClassSizes(p, &CountOptions{Epsilon: hugeEpsilon, MaxPartitionsContributed: 4, Rand: rand.NewSeeded(1)})
	if err != nil {
		t.Fatalf("ClassSizes: %v", err)
	}
	want := make(map[string]int64)
	for k, size := range p.Sizes() {
		want[k] = int64(size)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassSizes mismatch (-want +got):\n%s", diff)
	}
}

func TestClassSizesAreNonNegative(t *testing.T) {
	p := patientClasses(t)
	r := rand.NewSeeded(9)
	for i := 0; i < 200; i++ {
		got, err := ClassSizes(p, &CountOptions{Epsilon: 0.05, Rand: r})
		if err != nil {
			t.Fatalf("ClassSizes: %v", err)
		}
		if len(got) != len(p) {
			t.Fatalf("ClassSizes: got %d classes, want %d", len(got), len(p))
		}
		for k, size := range got {
			if size < 0 {
				t.Errorf("ClassSizes: class %s has negative size %d", k, size)
			}
		}
	}
}

func TestClassSizesErrors(t *testing.T) {
	if _, err := ClassSizes(patientClasses(t), &CountOptions{Epsilon: -1}); !errors.Is(err, checks.ErrConfiguration) {
		t.Errorf("ClassSizes with negative epsilon: got err %v, want ErrConfiguration", err)
	}
}
