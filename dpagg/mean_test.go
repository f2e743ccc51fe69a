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
	"math"
	"testing"

	"github.com/Willie-Conway/Exploring-Information-Privacy/checks"
	"github.com/Willie-Conway/Exploring-Information-Privacy/noise"
	"github.com/Willie-Conway/Exploring-Information-Privacy/rand"
)

func getBoundedMean(t *testing.T, opt *BoundedMeanOptions) *BoundedMean {
	t.Helper()
	bm, err := NewBoundedMean(opt)
	if err != nil {
		t.Fatalf("Couldn't get bounded mean with options %+v: %v", opt, err)
	}
	return bm
}

func TestNewBoundedMeanErrors(t *testing.T) {
	for _, tc := range []struct {
		desc string
		opt  *BoundedMeanOptions
	}{
		{"nil options", nil},
		{"equal bounds", &BoundedMeanOptions{Epsilon: ln3, Lower: 3, Upper: 3}},
		{"lower above upper", &BoundedMeanOptions{Epsilon: ln3, Lower: 5, Upper: 1}},
		{"zero epsilon", &BoundedMeanOptions{Lower: 0, Upper: 10}},
		{"Gaussian without delta", &BoundedMeanOptions{Epsilon: ln3, Lower: 0, Upper: 10, Noise: noise.GaussianNoise}},
	} {
		if _, err := NewBoundedMean(tc.opt); !errors.Is(err, checks.ErrConfiguration) {
			t.Errorf("NewBoundedMean: when %s got err %v, want ErrConfiguration", tc.desc, err)
		}
	}
}

func TestBoundedMeanResult(t *testing.T) {
	bm := getBoundedMean(t, &BoundedMeanOptions{Epsilon: hugeEpsilon, Lower: 0, Upper: 10, Rand: rand.NewSeeded(1)})
	for _, e := range []float64{1, 2, 3, 14, math.NaN()} {
		if err := bm.Add(e); err != nil {
			t.Fatalf("Add(%v): %v", e, err)
		}
	}
	got, err := bm.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	// 14 is clamped to 10 and NaN is skipped: (1+2+3+10)/4.
	if !ApproxEqual(got, 4) {
		t.Errorf("Result: got %v, want 4", got)
	}
	if _, err := bm.Result(); !errors.Is(err, checks.ErrInvalidInput) {
		t.Errorf("second Result: got err %v, want ErrInvalidInput", err)
	}
}

func TestBoundedMeanMerge(t *testing.T) {
	opt := &BoundedMeanOptions{Epsilon: hugeEpsilon, Lower: 0, Upper: 100, Rand: rand.NewSeeded(1)}
	bm1, bm2 := getBoundedMean(t, opt), getBoundedMean(t, opt)
	bm1.Add(10)
	bm2.Add(20)
	bm2.Add(30)
	if err := bm1.Merge(bm2); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got, _ := bm1.Result(); !ApproxEqual(got, 20) {
		t.Errorf("Result after Merge: got %v, want 20", got)
	}
	if err := bm2.Add(1); !errors.Is(err, checks.ErrInvalidInput) {
		t.Errorf("Add on a merged mean: got err %v, want ErrInvalidInput", err)
	}
}

func TestBoundedMeanStaysWithinBounds(t *testing.T) {
	r := rand.NewSeeded(11)
	for i := 0; i < 500; i++ {
		bm := getBoundedMean(t, &BoundedMeanOptions{Epsilon: 0.1, Lower: -1, Upper: 1, Rand: r})
		bm.Add(1)
		got, err := bm.Result()
		if err != nil {
			t.Fatalf("Result: %v", err)
		}
		if got < -1 || got > 1 {
			t.Errorf("Result: got %v, want within [-1, 1]", got)
		}
	}
}

func TestBoundedMeanEmpty(t *testing.T) {
	bm := getBoundedMean(t, &BoundedMeanOptions{Epsilon: hugeEpsilon, Lower: 20, Upper: 40, Rand: rand.NewSeeded(1)})
	got, err := bm.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	// The noisy count is raised to 1 and the normalized sum is 0, which
	// leaves the midpoint.
	if !ApproxEqual(got, 30) {
		t.Errorf("Result of an empty mean: got %v, want 30", got)
	}
}
