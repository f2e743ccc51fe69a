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
	"fmt"

	"github.com/Willie-Conway/Exploring-Information-Privacy/grouping"
)

// ClassSizes releases the size of every equivalence class of p with a
// differentially private Count. Each record belongs to exactly one class, so
// opt.MaxPartitionsContributed is ignored and set to 1. The noisy sizes are
// keyed by class key and clamped at 0.
//
// The keys themselves are not protected: releasing the histogram of a
// partition whose keys depend on the data is only private if the set of
// possible keys is public.
func ClassSizes(p grouping.Partition, opt *CountOptions) (map[string]int64, error) {
	if opt == nil {
		opt = &CountOptions{}
	}
	perClass := *opt
	perClass.MaxPartitionsContributed = 1
	sizes := make(map[string]int64, len(p))
	for _, c := range p.Classes() {
		count, err := NewCount(&perClass)
		if err != nil {
			return nil, fmt.Errorf("ClassSizes: %w", err)
		}
		if err := count.IncrementBy(int64(c.Size())); err != nil {
			return nil, err
		}
		noised, err := count.Result()
		if err != nil {
			return nil, err
		}
		sizes[c.Key] = max(noised, 0)
	}
	return sizes, nil
}
