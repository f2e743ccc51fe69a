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

// Package rand provides the random source used by the differential privacy
// mechanisms.
//
// Randomness is an explicit capability: every mechanism receives a *Rand
// from its caller instead of drawing from process-wide state. A seeded Rand
// makes mechanism outputs reproducible; a secure Rand reads crypto/rand.
package rand

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math"
	"math/bits"

	log "github.com/golang/glog"
	xrand "golang.org/x/exp/rand"
)

// Rand draws the uniform, Boolean and geometric samples the noise
// mechanisms are built from. It also satisfies the golang.org/x/exp/rand
// Source interface, so gonum distributions can sample from it directly.
//
// Not thread-safe.
type Rand struct {
	src    xrand.Source
	bitBuf uint8
	bitPos int8
}

// New returns a Rand drawing from src.
func New(src xrand.Source) *Rand {
	return &Rand{src: src, bitPos: math.MaxInt8}
}

// NewSeeded returns a deterministic Rand. Two instances with the same seed
// produce the same sequence of samples.
func NewSeeded(seed uint64) *Rand {
	return New(xrand.NewSource(seed))
}

// NewSecure returns a Rand backed by crypto/rand. Each call owns its own
// buffered reader.
func NewSecure() *Rand {
	return New(&secureSource{r: bufio.NewReaderSize(cryptorand.Reader, 4096)})
}

// OrSecure returns r, or a fresh secure Rand when r is nil.
func OrSecure(r *Rand) *Rand {
	if r == nil {
		return NewSecure()
	}
	return r
}

// Uint64 returns a uniformly random uint64.
func (r *Rand) Uint64() uint64 {
	return r.src.Uint64()
}

// Seed reseeds the underlying source and discards buffered random bits.
func (r *Rand) Seed(seed uint64) {
	r.src.Seed(seed)
	r.bitPos = math.MaxInt8
}

// u8 returns a uniformly random uint8.
func (r *Rand) u8() uint8 {
	return uint8(r.src.Uint64())
}

// Sign returns +1.0 or -1.0 with equal probabilities.
func (r *Rand) Sign() float64 {
	if r.Boolean() {
		return 1.0
	}
	return -1.0
}

// Boolean returns true or false with equal probability.
func (r *Rand) Boolean() bool {
	if r.bitPos > 7 { // Out of random bits.
		r.bitBuf = r.u8()
		r.bitPos = 0
	}
	res := r.bitBuf&(1<<r.bitPos) > 0
	r.bitPos++
	return res
}

// I63n returns an integer from the set {0,...,n-1} uniformly at random.
// The value of n must be positive.
func (r *Rand) I63n(n int64) int64 {
	largestMultipleOfN := (math.MaxInt64 / n) * n
	for {
		// Draw random 64 bit sequence and set sign bit to 0.
		positiveRandomInteger := int64(r.Uint64()) & 0x7fffffffffffffff
		if positiveRandomInteger < largestMultipleOfN {
			return positiveRandomInteger % n
		}
	}
}

// Uniform returns a float64 from the interval (0,1] such that each float
// in the interval is returned with positive probability and the resulting
// distribution simulates a continuous uniform distribution on (0, 1].
func (r *Rand) Uniform() float64 {
	i := r.Uint64() % (1 << 53)
	u := (1 + float64(i)/(1<<53)) / math.Pow(2, r.Geometric())
	// The mechanisms take the log of the output, so 0 is never returned.
	if u == 0 {
		return 1
	}
	return u
}

// Geometric returns a float64 that counts the number of Bernoulli trials until
// the first success for a success probability of 0.5.
func (r *Rand) Geometric() float64 {
	// 1 plus the number of leading zeros from an infinite stream of random bits
	// follows the desired geometric distribution.
	b := 1
	var u uint8
	for u == 0 {
		u = r.u8()
		b += bits.LeadingZeros8(u)
	}
	return float64(b)
}

// secureSource is an xrand.Source reading from crypto/rand.
type secureSource struct {
	r io.Reader
}

func (s *secureSource) Uint64() uint64 {
	var b [8]uint8
	if _, err := io.ReadFull(s.r, b[:]); err != nil {
		log.Fatalf("out of randomness, should never happen: %v", err)
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Seed is a no-op.
func (s *secureSource) Seed(uint64) {}
